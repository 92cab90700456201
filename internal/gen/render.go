package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"github.com/reoring/gomapper"
	"github.com/reoring/gomapper/internal/analyze"
)

// File is the input of RenderFile.
type File struct {
	Package string
	Types   []*analyze.Struct
}

var kindConst = map[gomapper.Kind]string{
	gomapper.KindString:    "KindString",
	gomapper.KindBool:      "KindBool",
	gomapper.KindContainer: "KindContainer",
	gomapper.KindInteger:   "KindInteger",
	gomapper.KindFloat:     "KindFloat",
	gomapper.KindAny:       "KindAny",
	gomapper.KindObject:    "KindObject",
}

var fileTmpl = template.Must(template.New("file").Funcs(template.FuncMap{
	"kind": func(k gomapper.Kind) (string, error) {
		c, ok := kindConst[k]
		if !ok {
			return "", fmt.Errorf("no constant for kind %s", k)
		}
		return c, nil
	},
}).Parse(`// Code generated by gomapper gen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/reoring/gomapper"
	"github.com/reoring/gomapper/dsl"
)

func init() {
{{- range .Types}}
	dsl.ObjectOf[{{.Name}}]().
{{- with .Constructor}}
		Constructor({{.Func}}{{range .Params}}, {{printf "%q" .}}{{end}}).
{{- end}}
{{- range .Fields}}
		Field({{printf "%q" .Key}}).Kind(gomapper.{{kind .Kind}}){{if .Flagged}}.Nullable(){{end}}.
{{- end}}
		MustRegister()
{{- end}}
}
`))

// RenderFile renders dsl registrations for every type and gofmts the result.
func RenderFile(f File) ([]byte, error) {
	if f.Package == "" {
		return nil, fmt.Errorf("gen: package name is required")
	}
	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, f); err != nil {
		return nil, fmt.Errorf("gen: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format: %w\n%s", err, buf.String())
	}
	return out, nil
}
