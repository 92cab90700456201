package config

// DefaultFile is read when no explicit config path is given and it exists in
// the working directory.
const DefaultFile = ".gomapper.yaml"

// EnvPrefix prefixes every environment variable understood by the CLI, for
// example GOMAPPER_LOG_LEVEL or GOMAPPER_GEN_BUILD_TAGS.
const EnvPrefix = "GOMAPPER_"

// Config holds the gomapper CLI settings.
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Gen     GenConfig     `koanf:"gen"`
	Inspect InspectConfig `koanf:"inspect"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `koanf:"json"`
}

// GenConfig configures `gomapper gen`.
type GenConfig struct {
	// Output file; stdout when empty.
	Output string `koanf:"output"`
	// Constructors enables New<Type> detection.
	Constructors bool     `koanf:"constructors"`
	BuildTags    []string `koanf:"build_tags"`
}

type InspectConfig struct {
	Format string `koanf:"format" validate:"oneof=yaml json jsonschema dump"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: "info"},
		Gen:     GenConfig{Constructors: true},
		Inspect: InspectConfig{Format: "yaml"},
	}
}
