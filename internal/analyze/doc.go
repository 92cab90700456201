// Package analyze loads Go packages and describes their structs the way the
// gomapper reflection resolver would, without running the code.
//
// It uses golang.org/x/tools/go/packages with go/types to read field types,
// struct tags and New<Type> constructor functions.
//
// Key types:
//   - Analyzer: loads package patterns and looks structs up by name
//   - Struct: fields in declaration order plus an optional Constructor
//   - Field: external key, kind, nullability, groups and default literal
package analyze
