package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/geldfluss/geldfluss/pkg/categorizer"
)

// Config is the full runtime configuration. Every match table carries a
// compiled-in default and can be replaced from the config file; flags win
// over file values.
type Config struct {
	Anonymize        bool                         `mapstructure:"anonymize"`
	Output           string                       `mapstructure:"output"`
	Debug            bool                         `mapstructure:"debug"`
	Businesses       []string                     `mapstructure:"businesses"`
	TransferKeywords []string                     `mapstructure:"transfer_keywords"`
	Rules            []categorizer.RuleSpec       `mapstructure:"rules"`
	RulesFile        string                       `mapstructure:"rules_file"`
	Translations     map[string]string            `mapstructure:"translations"`
	LearnedMappings  []categorizer.LearnedMapping `mapstructure:"learned_mappings"`
}

// Build loads configuration from an optional yaml file, the environment
// (GELDFLUSS_ prefix) and the given flag set, in increasing precedence.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("anonymize", true)
	v.SetDefault("output", "csv")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("geldfluss")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("GELDFLUSS")
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicitly named one
		// must exist and parse.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.RulesFile != "" {
		specs, err := LoadRuleFile(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		cfg.Rules = append(cfg.Rules, specs...)
	}
	return &cfg, nil
}

// LoadRuleFile reads a standalone yaml rule table so large rule sets can
// live outside the main config file. Inline rules keep precedence; loaded
// rules are appended after them.
func LoadRuleFile(path string) ([]categorizer.RuleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	var specs []categorizer.RuleSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
	}
	return specs, nil
}
