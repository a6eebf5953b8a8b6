package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"golang.org/x/net/proxy"
)

// System looks up TXT records through the platform resolver.
//
// net.Resolver reports a missing name (NXDOMAIN) and an existing name without
// TXT records (NODATA) with the same not-found *net.DNSError. On that error
// System asks the first resolv.conf nameserver directly, so callers get
// ErrNXDomain for the former and an empty answer for the latter.
type System struct {
	resolver *net.Resolver
	// classify is nil when no nameserver could be read; not-found errors
	// are then returned unchanged.
	classify *Client
}

// NewSystem returns the platform resolver appropriate for the given proxy URL.
//
// When proxyURL is empty, ALL_PROXY (or all_proxy) is consulted. When neither
// names a socks5:// URL, the standard system resolver is used (nil Dial
// field, Go uses the platform resolver).
//
// With a socks5:// URL, DNS queries, including the not-found follow-up, are
// tunnelled through the SOCKS5 proxy using DNS-over-TCP.
func NewSystem(proxyURL string) (*System, error) {
	if proxyURL == "" {
		proxyURL = allProxyFromEnv()
	}
	if !strings.HasPrefix(proxyURL, "socks5://") {
		return newSystem(&net.Resolver{}, Config{}), nil
	}

	host := strings.TrimPrefix(proxyURL, "socks5://")

	dialer, err := proxy.SOCKS5("tcp", host, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("creating SOCKS5 dialer for DNS: %w", err)
	}

	// proxy.SOCKS5 returns a ContextDialer; type-assert to get DialContext.
	ctxDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer does not implement ContextDialer")
	}
	dial := func(ctx context.Context, _, address string) (net.Conn, error) {
		return ctxDialer.DialContext(ctx, "tcp", address)
	}

	return newSystem(
		&net.Resolver{PreferGo: true, Dial: dial},
		Config{Net: NetTCP, Dial: dial},
	), nil
}

func newSystem(r *net.Resolver, cfg Config) *System {
	s := &System{resolver: r}
	if c, err := NewClient(cfg); err == nil {
		s.classify = c
	}
	return s
}

// LookupTXT returns the TXT values at name.
func (s *System) LookupTXT(ctx context.Context, name string) ([]string, error) {
	txts, err := s.resolver.LookupTXT(ctx, name)
	if err == nil || s.classify == nil || !isNotFound(err) {
		return txts, err
	}
	return s.classify.LookupTXT(ctx, name)
}

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}

func allProxyFromEnv() string {
	for _, env := range []string{"ALL_PROXY", "all_proxy"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}
