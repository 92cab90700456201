package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reoring/gomapper/internal/analyze"
)

type fieldView struct {
	Name     string   `json:"name" yaml:"name"`
	GoName   string   `json:"go_name" yaml:"go_name"`
	Type     string   `json:"type" yaml:"type"`
	Kind     string   `json:"kind" yaml:"kind"`
	Nullable bool     `json:"nullable" yaml:"nullable"`
	Groups   []string `json:"groups,omitempty" yaml:"groups,omitempty"`
	Default  *string  `json:"default,omitempty" yaml:"default,omitempty"`
}

type typeView struct {
	Type        string      `json:"type" yaml:"type"`
	Package     string      `json:"package" yaml:"package"`
	Constructor []string    `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Fields      []fieldView `json:"fields" yaml:"fields"`
}

func viewOf(s *analyze.Struct) typeView {
	v := typeView{Type: s.Name, Package: s.PkgPath, Fields: make([]fieldView, 0, len(s.Fields))}
	if s.Constructor != nil {
		v.Constructor = append([]string{s.Constructor.Func}, s.Constructor.Params...)
	}
	for _, f := range s.Fields {
		fv := fieldView{
			Name:     f.Key,
			GoName:   f.GoName,
			Type:     f.TypeString,
			Kind:     f.Kind.String(),
			Nullable: f.Nullable,
			Groups:   f.Groups,
		}
		if f.HasDefault {
			d := f.Default
			fv.Default = &d
		}
		v.Fields = append(v.Fields, fv)
	}
	return v
}

func InspectCmd() *cobra.Command {
	var pkg, typesCSV string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the metadata gomapper derives for struct types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd.Context())
			a := analyze.NewAnalyzer("", cfg.Gen.BuildTags...)
			if err := a.LoadPackages(pkg); err != nil {
				return err
			}
			for _, name := range splitCSV(typesCSV) {
				s, err := a.Struct(name, true)
				if err != nil {
					return err
				}
				if err := writeInspect(cmd.OutOrStdout(), s, cfg.Inspect.Format); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pkg, "pkg", ".", "package pattern to load")
	cmd.Flags().StringVar(&typesCSV, "type", "", "comma-separated type names")
	cmd.Flags().String("format", "yaml", "output format: yaml, json, jsonschema or dump")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func writeInspect(w io.Writer, s *analyze.Struct, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(viewOf(s)); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		return writeJSON(w, viewOf(s))
	case "jsonschema":
		return writeJSON(w, s.Schema())
	case "dump":
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(w, s)
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeJSON(w io.Writer, v any) error {
	b, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
