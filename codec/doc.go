// Package codec provides additional gomapper.WireCodec implementations.
//
// The root package ships a goccy/go-json codec as the default. This package
// adds:
//
//   - JSONv2: github.com/go-json-experiment/json with exact number literals
//   - YAML: gopkg.in/yaml.v3, keys in metadata order on output
//
// Install one globally with gomapper.SetDefaultCodec or per mapper with
// gomapper.WithCodec.
package codec
