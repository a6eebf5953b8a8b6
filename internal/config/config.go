// Package config loads dkimkey settings from flags, environment variables and
// a YAML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tbckr/dkimkey/internal/appdir"
)

// EnvPrefix is prepended to every environment variable, e.g. DKIMKEY_OUTPUT.
const EnvPrefix = "DKIMKEY"

// Transport names accepted by the transport key.
const (
	TransportSystem = "system"
	TransportUDP    = "udp"
	TransportTCP    = "tcp"
	TransportTLS    = "tls"
	TransportDoH    = "doh"
)

// Transports lists every supported transport.
var Transports = []string{TransportSystem, TransportUDP, TransportTCP, TransportTLS, TransportDoH}

// Config is the fully resolved runtime configuration.
type Config struct {
	// ConfigFile is the path the file layer was read from.
	ConfigFile string

	Verbose     bool
	Output      string
	Concurrency int
	Transport   string
	Nameserver  string
	DoHURL      string
	Proxy       string
	UserAgent   string
	Timeout     time.Duration
	RateLimit   float64
	RateBurst   int
	// RequireTag holds "name=value" pairs every key record must carry.
	RequireTag  []string
	MetricsFile string
}

// flagKeys maps flag names to viper keys.
var flagKeys = map[string]string{
	"verbose":      "verbose",
	"output":       "output",
	"concurrency":  "concurrency",
	"transport":    "transport",
	"nameserver":   "nameserver",
	"doh-url":      "doh_url",
	"proxy":        "proxy",
	"user-agent":   "user_agent",
	"timeout":      "timeout",
	"rate-limit":   "rate_limit",
	"rate-burst":   "rate_burst",
	"require-tag":  "require_tag",
	"metrics-file": "metrics_file",
}

// RegisterFlags adds every configuration flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default: $XDG_CONFIG_HOME/dkimkey/config.yaml)")
	fs.BoolP("verbose", "v", false, "enable debug logging")
	fs.StringP("output", "o", "text", "output format: text, json, plain, table")
	fs.IntP("concurrency", "c", 10, "number of concurrent lookups for bulk input")
	fs.String("transport", TransportSystem, "DNS transport: system, udp, tcp, tls, doh")
	fs.String("nameserver", "", "nameserver for udp/tcp/tls transports (default: first entry of /etc/resolv.conf)")
	fs.String("doh-url", "", "DNS-over-HTTPS endpoint (default: https://dns.quad9.net/dns-query)")
	fs.String("proxy", "", "proxy URL for doh (http, https, socks5) and system (socks5) transports")
	fs.String("user-agent", "", "User-Agent for DNS-over-HTTPS requests")
	fs.Duration("timeout", 5*time.Second, "per-lookup timeout")
	fs.Float64("rate-limit", 0, "maximum lookups per second (0 disables pacing)")
	fs.Int("rate-burst", 1, "lookups allowed above --rate-limit in a burst")
	fs.StringSlice("require-tag", nil, "tag=value the key record must carry, e.g. k=rsa (repeatable)")
	fs.String("metrics-file", "", "write Prometheus metrics to this file after check")
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/dkimkey/config.yaml or the OS
// equivalent.
func DefaultConfigPath() (string, error) {
	dir, err := appdir.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load resolves the configuration with precedence flag > env > file > default.
// The config file is created empty (0600) when it does not exist yet.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("binding flag --%s: %w", flag, err)
		}
	}

	path, err := fs.GetString("config")
	if err != nil || path == "" {
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	if err := appdir.EnsureFile(path); err != nil {
		return nil, err
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		ConfigFile:  path,
		Verbose:     v.GetBool("verbose"),
		Output:      v.GetString("output"),
		Concurrency: v.GetInt("concurrency"),
		Transport:   strings.ToLower(v.GetString("transport")),
		Nameserver:  v.GetString("nameserver"),
		DoHURL:      v.GetString("doh_url"),
		Proxy:       v.GetString("proxy"),
		UserAgent:   v.GetString("user_agent"),
		Timeout:     v.GetDuration("timeout"),
		RateLimit:   v.GetFloat64("rate_limit"),
		RateBurst:   v.GetInt("rate_burst"),
		RequireTag:  v.GetStringSlice("require_tag"),
		MetricsFile: v.GetString("metrics_file"),
	}
	return cfg, nil
}

// RequiredTags parses RequireTag into a name → value map.
func (c *Config) RequiredTags() (map[string]string, error) {
	if len(c.RequireTag) == 0 {
		return nil, nil
	}
	tags := make(map[string]string, len(c.RequireTag))
	for _, pair := range c.RequireTag {
		name, value, err := parseTagPair(pair)
		if err != nil {
			return nil, err
		}
		tags[name] = value
	}
	return tags, nil
}

func parseTagPair(pair string) (string, string, error) {
	name, value, ok := strings.Cut(pair, "=")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if !ok || name == "" || value == "" {
		return "", "", fmt.Errorf("invalid required tag %q: want name=value", pair)
	}
	return name, value, nil
}
