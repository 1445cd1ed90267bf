package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".revlens"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for revlens settings.
const envPrefix = "REVLENS"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// DefaultWorkers is the default number of detection workers.
const DefaultWorkers = 1

// DefaultBackend is the default detection backend label.
const DefaultBackend = "cpu"

// DefaultFormat is the default output format.
const DefaultFormat = "summary"

// DefaultMetricsListen is the default Prometheus scrape address.
const DefaultMetricsListen = ":9464"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analysis.include", []string{})
	viperCfg.SetDefault("analysis.exclude", []string{})
	viperCfg.SetDefault("analysis.workers", DefaultWorkers)
	viperCfg.SetDefault("analysis.backend", DefaultBackend)
	viperCfg.SetDefault("analysis.rules_file", "")

	viperCfg.SetDefault("output.format", DefaultFormat)
	viperCfg.SetDefault("output.silent", false)

	viperCfg.SetDefault("metrics.enabled", false)
	viperCfg.SetDefault("metrics.listen", DefaultMetricsListen)
}
