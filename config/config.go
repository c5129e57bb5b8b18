// Package config resolves brammap's per-user configuration: where the
// rules-repository cache lives, the default output format for `rules dump`,
// and the default diagnostic verbosity.
package config

import (
	"os"
	"path"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/daedaleanai/brammap/log"
)

// Config holds the resolved configuration values.
type Config struct {
	// RulesCacheDir is where `brammap rules fetch` clones/pulls rules repositories.
	RulesCacheDir string
	// OutputFormat is the default serialization format used by `rules dump` ("yaml" or "go").
	OutputFormat string
	// Verbose is the default value of the --verbose flag when not set explicitly.
	Verbose bool
}

const configFileName = "config"

var config *Config

// configDir mirrors the teacher's XDG-ish resolution order: an explicit
// override, then XDG_CONFIG_HOME, then $HOME/.config.
func configDir() (string, error) {
	if dir, ok := os.LookupEnv("BRAMMAP_CONFIG_DIR"); ok {
		return dir, nil
	}

	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		return path.Join(xdgConfigHome, "brammap"), nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return path.Join(home, ".config", "brammap"), nil
}

func defaultCacheDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return path.Join(os.TempDir(), "brammap", "rules-cache")
	}
	return path.Join(home, ".cache", "brammap", "rules")
}

func load() Config {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")

	v.SetDefault("rules-cache-dir", defaultCacheDir())
	v.SetDefault("output-format", "yaml")
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("BRAMMAP")
	v.AutomaticEnv()

	if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			log.Debug("No usable config file in %q, using defaults: %s\n", dir, err)
		} else {
			log.Debug("Loaded configuration from %q\n", v.ConfigFileUsed())
		}
	} else {
		log.Debug("Unable to locate the configuration directory, using defaults: %s\n", err)
	}

	cfg := Config{
		RulesCacheDir: v.GetString("rules-cache-dir"),
		OutputFormat:  v.GetString("output-format"),
		Verbose:       v.GetBool("verbose"),
	}
	log.Debug("Running with configuration: %+v\n", cfg)
	return cfg
}

// Get returns the process-wide configuration, loading it on first use.
func Get() Config {
	if config == nil {
		loaded := load()
		config = &loaded
	}
	return *config
}
