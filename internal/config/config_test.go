package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/dkimkey/internal/config"
)

// newTestFlags registers all config flags on a fresh FlagSet, then parses extra args.
func newTestFlags(t *testing.T, cfgFile string, extra ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	args := append([]string{"--config=" + cfgFile}, extra...)
	require.NoError(t, flags.Parse(args))
	return flags
}

func tempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfgFile := tempConfig(t, "")

	cfg, err := config.Load(newTestFlags(t, cfgFile))
	require.NoError(t, err)
	assert.Equal(t, cfgFile, cfg.ConfigFile)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, 10, cfg.Concurrency)
	assert.Equal(t, config.TransportSystem, cfg.Transport)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Zero(t, cfg.RateLimit)
	assert.Equal(t, 1, cfg.RateBurst)
	assert.Empty(t, cfg.RequireTag)
	require.NoError(t, cfg.Validate())

	// The config file is created with owner-only permissions.
	info, err := os.Stat(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := config.Load(newTestFlags(t, tempConfig(t, ""),
		"-v", "-o", "json", "-c", "3",
		"--transport=tls",
		"--nameserver=9.9.9.9",
		"--timeout=2s",
		"--rate-limit=2.5",
		"--rate-burst=4",
		"--require-tag=k=rsa",
		"--require-tag=v=DKIM1",
		"--metrics-file=/tmp/dkimkey.prom",
	))
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, config.TransportTLS, cfg.Transport)
	assert.Equal(t, "9.9.9.9", cfg.Nameserver)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.InDelta(t, 2.5, cfg.RateLimit, 0.0001)
	assert.Equal(t, 4, cfg.RateBurst)
	assert.Equal(t, []string{"k=rsa", "v=DKIM1"}, cfg.RequireTag)
	assert.Equal(t, "/tmp/dkimkey.prom", cfg.MetricsFile)
}

func TestLoad_ConfigFileValues(t *testing.T) {
	cfgFile := tempConfig(t, "transport: doh\ndoh_url: https://doh.example/dns-query\nconcurrency: 20\ntimeout: 10s\n")

	cfg, err := config.Load(newTestFlags(t, cfgFile))
	require.NoError(t, err)
	assert.Equal(t, config.TransportDoH, cfg.Transport)
	assert.Equal(t, "https://doh.example/dns-query", cfg.DoHURL)
	assert.Equal(t, 20, cfg.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoad_Precedence(t *testing.T) {
	cfgFile := tempConfig(t, "output: plain\ntransport: tcp\nconcurrency: 20\n")
	t.Setenv("DKIMKEY_TRANSPORT", "udp")
	t.Setenv("DKIMKEY_CONCURRENCY", "7")

	cfg, err := config.Load(newTestFlags(t, cfgFile, "--concurrency=2"))
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.Output, "file beats default")
	assert.Equal(t, config.TransportUDP, cfg.Transport, "env beats file")
	assert.Equal(t, 2, cfg.Concurrency, "flag beats env")
}

func TestLoad_EnvHyphenatedKey(t *testing.T) {
	t.Setenv("DKIMKEY_DOH_URL", "https://env.example/dns-query")

	cfg, err := config.Load(newTestFlags(t, tempConfig(t, "")))
	require.NoError(t, err)
	assert.Equal(t, "https://env.example/dns-query", cfg.DoHURL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := config.Load(newTestFlags(t, tempConfig(t, "output: [unterminated\n")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestConfig_Validate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Output: "text", Transport: "system", Concurrency: 1,
			Timeout: time.Second, RateBurst: 1,
		}
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"output", func(c *config.Config) { c.Output = "xml" }, "unsupported output format"},
		{"transport", func(c *config.Config) { c.Transport = "quic" }, "invalid transport"},
		{"concurrency", func(c *config.Config) { c.Concurrency = 0 }, "--concurrency"},
		{"timeout", func(c *config.Config) { c.Timeout = 0 }, "--timeout"},
		{"rate limit", func(c *config.Config) { c.RateLimit = -1 }, "--rate-limit"},
		{"rate burst", func(c *config.Config) { c.RateBurst = 0 }, "--rate-burst"},
		{"require tag", func(c *config.Config) { c.RequireTag = []string{"k"} }, "invalid required tag"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig_RequiredTags(t *testing.T) {
	c := &config.Config{RequireTag: []string{"k=rsa", " v = DKIM1 "}}
	tags, err := c.RequiredTags()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"k": "rsa", "v": "DKIM1"}, tags)

	tags, err = (&config.Config{}).RequiredTags()
	require.NoError(t, err)
	assert.Nil(t, tags)
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path, err := config.DefaultConfigPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path), "expected absolute path, got %q", path)
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, "dkimkey", filepath.Base(filepath.Dir(path)))
}
