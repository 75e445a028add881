package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName names the config file (epwizard.yaml) and config directory.
	AppName = "epwizard"

	// EnvPrefix is the prefix of environment variables, e.g.
	// EPWIZARD_CATALOG_URL for catalog.url.
	EnvPrefix = "EPWIZARD"
)

// Config is the application configuration.
type Config struct {
	Log struct {
		File  string `mapstructure:"file"`
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Catalog struct {
		Dir     string        `mapstructure:"dir"`
		URL     string        `mapstructure:"url"`
		Token   string        `mapstructure:"token"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"catalog"`

	Wizard struct {
		MaxFieldsPerPage int    `mapstructure:"max_fields_per_page"`
		TargetInterface  string `mapstructure:"target_interface"`
	} `mapstructure:"wizard"`

	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`

	Output struct {
		EndpointsFile string `mapstructure:"endpoints_file"`
	} `mapstructure:"output"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// FlagKeys maps command line flag names to config keys.
var FlagKeys = map[string]string{
	"log-file":            "log.file",
	"log-level":           "log.level",
	"catalog-dir":         "catalog.dir",
	"catalog-url":         "catalog.url",
	"catalog-timeout":     "catalog.timeout",
	"max-fields-per-page": "wizard.max_fields_per_page",
	"target-interface":    "wizard.target_interface",
	"port":                "server.port",
	"endpoints-file":      "output.endpoints_file",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.file", filepath.Join("logs", AppName+".log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("catalog.dir", "")
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.token", "")
	v.SetDefault("catalog.timeout", 30*time.Second)
	v.SetDefault("wizard.max_fields_per_page", 20)
	v.SetDefault("wizard.target_interface", "RouteBuilder")
	v.SetDefault("server.port", 8080)
	v.SetDefault("output.endpoints_file", "endpoints.yaml")
}

// Load reads the configuration. Precedence, highest first: flags that were
// set on the command line, EPWIZARD_* environment variables, the config
// file, defaults. cfgFile names an explicit config file; when empty,
// epwizard.yaml is searched in the working directory and the user config
// directory. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		cfg.File = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	if c.Wizard.MaxFieldsPerPage <= 0 {
		return fmt.Errorf("wizard.max_fields_per_page must be positive, got %d", c.Wizard.MaxFieldsPerPage)
	}
	if c.Catalog.Dir != "" && c.Catalog.URL != "" {
		return errors.New("catalog.dir and catalog.url are mutually exclusive")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
