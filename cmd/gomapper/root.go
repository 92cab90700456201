package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/gomapper/internal/config"
	"github.com/reoring/gomapper/logger"
)

type configCtxKey struct{}

// flagKeys maps CLI flags onto configuration keys; only changed flags
// override the file and environment.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-json":     "log.json",
	"output":       "gen.output",
	"constructors": "gen.constructors",
	"tags":         "gen.build_tags",
	"format":       "inspect.format",
}

func RootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "gomapper",
		Short:         "Generate and inspect gomapper type metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			overrides := map[string]any{}
			for flag, key := range flagKeys {
				if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
					overrides[key] = f.Value.String()
				}
			}
			cfg, err := config.Load(configPath, overrides)
			if err != nil {
				return err
			}
			log := logger.NewLogger(&logger.Config{
				Level:      logger.ParseLevel(cfg.Log.Level),
				Output:     cmd.ErrOrStderr(),
				JSON:       cfg.Log.JSON,
				TimeFormat: "15:04:05",
			})
			ctx := logger.ContextWithLogger(cmd.Context(), log)
			cmd.SetContext(context.WithValue(ctx, configCtxKey{}, cfg))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultFile+" when present)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error or disabled")
	root.PersistentFlags().Bool("log-json", false, "emit logs as JSON")

	root.AddCommand(
		GenCmd(),
		InspectCmd(),
	)
	return root
}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configCtxKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
