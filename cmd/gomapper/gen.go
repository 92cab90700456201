package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reoring/gomapper/internal/analyze"
	"github.com/reoring/gomapper/internal/gen"
	"github.com/reoring/gomapper/logger"
)

func GenCmd() *cobra.Command {
	var pkg, typesCSV string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Emit dsl registration code for struct types",
		Example: `  gomapper gen --pkg ./guestbook --type Comment -o ./guestbook/comment_mapper.go
  gomapper gen --type Comment,Page --constructors=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			log := logger.FromContext(ctx, nil)

			a := analyze.NewAnalyzer("", cfg.Gen.BuildTags...)
			if err := a.LoadPackages(pkg); err != nil {
				return err
			}
			file := gen.File{}
			for _, name := range splitCSV(typesCSV) {
				s, err := a.Struct(name, cfg.Gen.Constructors)
				if err != nil {
					return err
				}
				if file.Package == "" {
					file.Package = s.PkgName
				} else if file.Package != s.PkgName {
					return fmt.Errorf("types span packages %s and %s", file.Package, s.PkgName)
				}
				if s.Constructor != nil {
					log.Debug("found constructor", "type", name, "func", s.Constructor.Func)
				}
				file.Types = append(file.Types, s)
			}
			if len(file.Types) == 0 {
				return fmt.Errorf("no types given")
			}
			code, err := gen.RenderFile(file)
			if err != nil {
				return err
			}
			if cfg.Gen.Output == "" {
				_, err = cmd.OutOrStdout().Write(code)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(cfg.Gen.Output), 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}
			if err := os.WriteFile(cfg.Gen.Output, code, 0o644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			log.Info("generated", "file", cfg.Gen.Output, "types", len(file.Types))
			return nil
		},
	}
	cmd.Flags().StringVar(&pkg, "pkg", ".", "package pattern to load")
	cmd.Flags().StringVar(&typesCSV, "type", "", "comma-separated type names")
	cmd.Flags().StringP("output", "o", "", "output file (stdout when empty)")
	cmd.Flags().Bool("constructors", true, "register New<Type> functions as constructors")
	cmd.Flags().String("tags", "", "comma-separated build tags used while loading")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
