// Package dsl declares gomapper metadata explicitly and registers it in a
// static lookup table.
//
// Overview
//   - ObjectOf[T]() starts from the metadata reflection derives for T (struct
//     tags included) and lets callers refine it field by field.
//   - Constructor(fn, names...) declares a factory whose parameters are
//     filled before any property is assigned.
//   - Field(name) selects a field; Groups/Default/Nullable/Kind/Ignore adjust it.
//   - Build/MustBuild return the metadata; Register/MustRegister store it in a
//     Resolver (the default one when nil).
//
// Quickstart
//
//	func NewComment(id int, name, text string) *Comment { ... }
//
//	func init() {
//		dsl.ObjectOf[Comment]().
//			Constructor(NewComment, "id", "name", "text").
//			Field("name").Groups("content").
//			Field("text").Groups("content").
//			MustRegister()
//	}
//
// Every declaration is checked against the Go types at Build time, so a
// mismatched kind or an unusable constructor fails in init rather than
// during a call. `gomapper gen` emits this code from struct declarations.
package dsl
