// Package gomapper provides:
//
// - Deserialize: wire-shaped Mapping (map[string]any) -> typed Go struct, constructor first, then property fill
// - Serialize: typed Go struct -> Mapping, optionally restricted to fields tagged with any of the requested groups
// - A stable error model via DeserializeError (JSON Pointer path, code, message)
// - Type metadata from struct tags, explicit registration (dsl/) or generated code (cmd/gomapper)
//
// Design policy:
// - The root package holds the public API and the mapping engine (resolution, conversion, the passes).
// - Place the registration DSL under dsl/, extra wire codecs under codec/, schema export under jsonschema/,
//   HTTP glue under middleware/, and the CLI under cmd/gomapper with its helpers in internal/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	type Comment struct {
//	    ID   int    `json:"id"`
//	    Name string `json:"name" groups:"content"`
//	    Text string `json:"text" groups:"content"`
//	}
//
//	c, err := gomapper.Deserialize[Comment](ctx, gomapper.Mapping{"id": 1, "name": "john doe", "text": "abc"})
//	full, err := gomapper.Serialize(ctx, c)               // {"id":1,"name":"john doe","text":"abc"}
//	body, err := gomapper.Marshal(ctx, c, "content")       // {"name":"john doe","text":"abc"}
//
// Group filtering only affects Serialize. A field is included when its group
// set intersects the requested groups; ungrouped fields are dropped whenever
// a filter is active. Nested objects are filtered independently with the same
// requested groups.
//
// Self-referencing object graphs recurse without bound unless the cycle guard
// is enabled with WithCycleGuard.
package gomapper
