package gomapper

import (
	"reflect"
	"strings"
)

// Struct tags understood by the reflection resolver.
const (
	TagMapper  = "mapper"
	TagGroups  = "groups"
	TagDefault = "default"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// external key.
// Priority: mapper:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string { return ResolveTagKey(sf.Name, sf.Tag) }

// ResolveTagKey is ResolveStructKey for callers that only have the Go field
// name and its tag, such as static analysis.
func ResolveTagKey(name string, tag reflect.StructTag) string {
	if mt := tag.Get(TagMapper); mt != "" {
		if mt == "-" {
			return "-"
		}
		for _, p := range strings.Split(mt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if i == 0 {
				return name
			}
			return jt[:i]
		}
		return jt
	}
	return name
}

// TagHasFlag reports whether the mapper tag carries a bare flag such as
// "nullable".
func TagHasFlag(tag reflect.StructTag, flag string) bool {
	for _, p := range strings.Split(tag.Get(TagMapper), ",") {
		if strings.TrimSpace(p) == flag {
			return true
		}
	}
	return false
}

// ParseGroups splits a comma separated group list, dropping blanks and
// duplicates while keeping declaration order.
func ParseGroups(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, g := range strings.Split(s, ",") {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
