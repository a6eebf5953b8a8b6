package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/tbckr/dkimkey/internal/config"
	"github.com/tbckr/dkimkey/internal/dkim"
	"github.com/tbckr/dkimkey/internal/doh"
	"github.com/tbckr/dkimkey/internal/httpclient"
	"github.com/tbckr/dkimkey/internal/metrics"
	"github.com/tbckr/dkimkey/internal/output"
	"github.com/tbckr/dkimkey/internal/ratelimit"
	"github.com/tbckr/dkimkey/internal/resolver"
	"github.com/tbckr/dkimkey/internal/services/dkimkey"
)

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger *slog.Logger
	cfg    *config.Config
	runID  string
}

// buildDeps resolves config, logger and output format.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format, _ := output.ParseFormat(cfg.Output)
	cfg.Output = string(format)

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	runID := ulid.Make().String()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).With("run", runID)
	logger.Debug("configuration loaded",
		"file", cfg.ConfigFile,
		"transport", cfg.Transport,
		"output", cfg.Output,
		"concurrency", cfg.Concurrency,
	)

	return &deps{cfg: cfg, logger: logger, runID: runID}, nil
}

// newTXTResolver returns the DNS transport selected by the transport setting.
func (d *deps) newTXTResolver() (dkim.TXTResolver, error) {
	switch d.cfg.Transport {
	case config.TransportSystem:
		r, err := resolver.NewSystem(d.cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("creating DNS resolver: %w", err)
		}
		return r, nil
	case config.TransportUDP, config.TransportTCP, config.TransportTLS:
		c, err := resolver.NewClient(resolver.Config{
			Net:        wireNet(d.cfg.Transport),
			Nameserver: d.cfg.Nameserver,
			Timeout:    d.cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating DNS client: %w", err)
		}
		d.logger.Debug("using nameserver", "server", c.Server(), "net", d.cfg.Transport)
		return c, nil
	case config.TransportDoH:
		client, err := httpclient.New(d.cfg.Proxy, d.cfg.UserAgent, d.logger, d.cfg.Verbose)
		if err != nil {
			return nil, fmt.Errorf("creating HTTP client: %w", err)
		}
		client.SetTimeout(d.cfg.Timeout)
		limiter := d.dohLimiter()
		httpclient.AttachRateLimit(client, limiter)
		c := doh.New(client, d.cfg.DoHURL)
		d.logger.Debug("using DNS-over-HTTPS", "url", c.URL(), "rate", limiter.Rate(), "burst", limiter.Burst())
		return c, nil
	default:
		return nil, fmt.Errorf("invalid transport %q", d.cfg.Transport)
	}
}

func wireNet(transport string) string {
	switch transport {
	case config.TransportTCP:
		return resolver.NetTCP
	case config.TransportTLS:
		return resolver.NetTLS
	default:
		return resolver.NetUDP
	}
}

// dohLimiter always paces public DoH endpoints; --rate-limit overrides the default.
func (d *deps) dohLimiter() *ratelimit.Limiter {
	if d.cfg.RateLimit > 0 {
		return ratelimit.New(d.cfg.RateLimit, d.cfg.RateBurst)
	}
	return ratelimit.New(doh.DefaultRPS, doh.DefaultBurst)
}

// newKeyService wires the key check service for the configured transport.
// The returned Metrics is non-nil only when a metrics file is configured.
func (d *deps) newKeyService() (*dkimkey.Service, *metrics.Metrics, error) {
	r, err := d.newTXTResolver()
	if err != nil {
		return nil, nil, err
	}
	required, err := d.cfg.RequiredTags()
	if err != nil {
		return nil, nil, err
	}
	checker := dkim.NewKeyChecker(r, dkim.WithRequiredTags(required))

	opts := []dkimkey.Option{dkimkey.WithTimeout(d.cfg.Timeout)}
	// DoH is paced inside its HTTP client.
	if d.cfg.RateLimit > 0 && d.cfg.Transport != config.TransportDoH {
		limiter := ratelimit.New(d.cfg.RateLimit, d.cfg.RateBurst)
		d.logger.Debug("pacing lookups", "rate", limiter.Rate(), "burst", limiter.Burst())
		opts = append(opts, dkimkey.WithLimiter(limiter))
	}
	var m *metrics.Metrics
	if d.cfg.MetricsFile != "" {
		m = metrics.New()
		opts = append(opts, dkimkey.WithMetrics(m))
	}
	return dkimkey.NewService(checker, d.logger, opts...), m, nil
}
