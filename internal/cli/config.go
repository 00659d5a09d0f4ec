package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigFileName is the configuration file looked up in the working
// directory when --config is not given.
const ConfigFileName = ".variants.yaml"

// EnvPrefix prefixes the environment variables that override configuration,
// for example VARIANTS_LOG_LEVEL.
const EnvPrefix = "VARIANTS"

// Config is the resolved CLI configuration. Flags take precedence over
// environment variables, which take precedence over the config file.
type Config struct {
	// Root is the project directory. Graph, project and manifest paths are
	// relative to it.
	Root string `mapstructure:"root"`

	// Project is the project file name inside Root.
	Project string `mapstructure:"project"`

	// Graph overrides the graph file named by the project file.
	Graph string `mapstructure:"graph"`

	// Manifest overrides the manifest path named by the project file.
	Manifest string `mapstructure:"manifest"`

	// Priority overrides the variant_priority of the project file.
	Priority []string `mapstructure:"priority"`

	Concurrency int    `mapstructure:"concurrency"`
	LogLevel    string `mapstructure:"log_level"`
}

// flagKeys maps persistent flag names to configuration keys.
var flagKeys = map[string]string{
	"root":        "root",
	"project":     "project",
	"graph":       "graph",
	"manifest":    "manifest",
	"priority":    "priority",
	"concurrency": "concurrency",
	"log-level":   "log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("project", "VARIANTS.bazel")
	v.SetDefault("concurrency", 1)
	v.SetDefault("log_level", "warn")
}

// loadConfig reads the configuration from flags, VARIANTS_* variables and
// the config file. An explicit configFile must exist; the default one is
// optional.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Config, error) {
	setDefaults(v)

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(ConfigFileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	return &cfg, nil
}
