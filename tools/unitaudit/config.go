package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileName = ".unitaudit"
	envPrefix      = "UNITAUDIT"
)

// defaultForbiddenNames are placeholder names that must never ship in course content.
var defaultForbiddenNames = []string{"山田太郎", "やまだたろう"}

type RunnerConfig struct {
	ContentRoot    string   `mapstructure:"content_root"`
	Manifest       string   `mapstructure:"manifest"`
	ForbiddenNames []string `mapstructure:"forbidden_names"`
	Write          bool     `mapstructure:"write"`
	ReportDir      string   `mapstructure:"report_dir"`
	Strict         bool     `mapstructure:"strict"`
	Verbose        bool     `mapstructure:"verbose"`
}

func DefaultConfig() RunnerConfig {
	return RunnerConfig{
		ContentRoot:    "public/content",
		Manifest:       "src/data/chapters.ts",
		ForbiddenNames: append([]string(nil), defaultForbiddenNames...),
		ReportDir:      "build/reports",
	}
}

// flagKeys binds command-line flags to config keys.
var flagKeys = map[string]string{
	"root":       "content_root",
	"manifest":   "manifest",
	"forbidden":  "forbidden_names",
	"write":      "write",
	"report-dir": "report_dir",
	"strict":     "strict",
	"verbose":    "verbose",
}

// loadConfig resolves the run configuration. Precedence is flags, then UNITAUDIT_*
// environment variables, then the config file, then defaults.
func loadConfig(flags *pflag.FlagSet, configPath string) (RunnerConfig, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("content_root", defaults.ContentRoot)
	v.SetDefault("manifest", defaults.Manifest)
	v.SetDefault("forbidden_names", defaults.ForbiddenNames)
	v.SetDefault("write", defaults.Write)
	v.SetDefault("report_dir", defaults.ReportDir)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return RunnerConfig{}, "", fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configFileName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return RunnerConfig{}, "", fmt.Errorf("read config: %w", err)
		}
	}

	var cfg RunnerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RunnerConfig{}, "", fmt.Errorf("decode config: %w", err)
	}
	if cfg.ContentRoot == "" {
		return RunnerConfig{}, "", errors.New("content root is empty")
	}
	if cfg.Manifest == "" {
		return RunnerConfig{}, "", errors.New("manifest path is empty")
	}
	return cfg, v.ConfigFileUsed(), nil
}
