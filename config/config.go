// Package config loads the githubdns settings from flags, environment and an
// optional config file.
package config

import (
	"fmt"
	"time"

	"githubdns/pkg/hosts"

	"github.com/spf13/viper"
)

// DefaultDomains are the hosts that get overrides when none are configured.
const DefaultDomains = "github.com,github.global.ssl.fastly.net,codeload.github.com,assets-cdn.github.com"

const EnvPrefix = "githubdns"

// Config is resolved once at start-up and passed to the components that
// need it.
type Config struct {
	Domains       []string      `mapstructure:"domains"`
	HostsFile     string        `mapstructure:"hosts_file"`
	LineDelimiter string        `mapstructure:"line_delimiter"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Concurrency   int           `mapstructure:"concurrency"`
	Proxy         string        `mapstructure:"proxy"`
	Fingerprint   string        `mapstructure:"fingerprint"`
	DryRun        bool          `mapstructure:"dry_run"`
	Verbose       bool          `mapstructure:"verbose"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("domains", DefaultDomains)
	v.SetDefault("hosts_file", "")
	v.SetDefault("line_delimiter", "")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("concurrency", 0)
	v.SetDefault("proxy", "")
	v.SetDefault("fingerprint", "chrome")
	v.SetDefault("dry_run", false)
	v.SetDefault("verbose", false)
}

// Load reads the optional config file, decodes v and validates the result.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Platform returns where the hosts file lives and how its lines are split,
// applying the hosts_file and line_delimiter overrides.
func (c *Config) Platform() (hosts.Platform, error) {
	p, err := hosts.CurrentPlatform()
	if err != nil {
		if c.HostsFile == "" {
			return hosts.Platform{}, err
		}
		p = hosts.Platform{LineDelimiter: "\n"}
	}
	if c.HostsFile != "" {
		p.Path = c.HostsFile
	}
	if c.LineDelimiter != "" {
		p.LineDelimiter = hosts.Delimiters[c.LineDelimiter]
	}
	return p, nil
}
