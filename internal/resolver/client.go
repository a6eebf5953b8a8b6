package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Network names accepted by Config.Net.
const (
	NetUDP = "udp"
	NetTCP = "tcp"
	NetTLS = "tcp-tls"
)

// DefaultTimeout bounds a single exchange when Config.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// ErrNXDomain is returned when the queried name does not exist.
var ErrNXDomain = errors.New("no such domain")

// ErrRcode is returned for any other non-success response code.
var ErrRcode = errors.New("unsuccessful response code")

// ErrTruncated is returned when a UDP answer did not fit and was truncated.
var ErrTruncated = errors.New("truncated response")

// Config configures a wire-level Client.
type Config struct {
	// Net is one of NetUDP, NetTCP or NetTLS. Empty means NetUDP.
	Net string
	// Nameserver is host or host:port. Empty means the first server listed
	// in ResolvConf.
	Nameserver string
	// ResolvConf is read when Nameserver is empty. Defaults to /etc/resolv.conf.
	ResolvConf string
	// Timeout bounds the exchange. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Dial opens the connection to the nameserver instead of the default
	// dialer, e.g. through a SOCKS5 proxy. Not supported with NetTLS.
	Dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// Client sends TXT queries to a single nameserver using github.com/miekg/dns.
type Client struct {
	client *dns.Client
	server string
	dial   func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	network := cfg.Net
	if network == "" {
		network = NetUDP
	}
	switch network {
	case NetUDP, NetTCP, NetTLS:
	default:
		return nil, fmt.Errorf("unsupported network %q: must be %s, %s or %s", network, NetUDP, NetTCP, NetTLS)
	}
	if cfg.Dial != nil && network == NetTLS {
		return nil, fmt.Errorf("custom dial is not supported for %s", NetTLS)
	}

	server := cfg.Nameserver
	if server == "" {
		var err error
		server, err = systemNameserver(cfg.ResolvConf)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &dns.Client{Net: network, Timeout: cfg.Timeout},
		server: withPort(server, network),
		dial:   cfg.Dial,
	}, nil
}

// Server returns the host:port queries are sent to.
func (c *Client) Server() string { return c.server }

// LookupTXT queries the TXT records at name. The character-strings of each
// record are joined. A successful response without TXT answers yields an
// empty slice and a nil error.
func (c *Client) LookupTXT(ctx context.Context, name string) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	m.RecursionDesired = true
	// 2048-bit keys do not fit the classic 512 byte UDP limit.
	m.SetEdns0(4096, false)

	resp, err := c.exchange(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.server, err)
	}

	if resp.Truncated {
		return nil, fmt.Errorf("%w from %s, retry over tcp", ErrTruncated, c.server)
	}
	return TXTAnswers(resp, name)
}

func (c *Client) exchange(ctx context.Context, m *dns.Msg) (*dns.Msg, error) {
	if c.dial == nil {
		resp, _, err := c.client.ExchangeContext(ctx, m, c.server)
		return resp, err
	}
	conn, err := c.dial(ctx, c.client.Net, c.server)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	resp, _, err := c.client.ExchangeWithConnContext(ctx, m, &dns.Conn{Conn: conn})
	return resp, err
}

// TXTAnswers maps the response code of resp to an error and otherwise
// returns the joined character-strings of every TXT record in the answer
// section. Records of other types (e.g. a CNAME chain) are skipped.
func TXTAnswers(resp *dns.Msg, name string) ([]string, error) {
	switch resp.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, fmt.Errorf("%w: %s", ErrNXDomain, name)
	default:
		return nil, fmt.Errorf("%w: %s for %s", ErrRcode, dns.RcodeToString[resp.Rcode], name)
	}

	var txts []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			txts = append(txts, strings.Join(txt.Txt, ""))
		}
	}
	return txts, nil
}

func systemNameserver(path string) (string, error) {
	if path == "" {
		path = "/etc/resolv.conf"
	}
	conf, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return "", fmt.Errorf("reading DNS config: %w", err)
	}
	if len(conf.Servers) == 0 {
		return "", fmt.Errorf("no nameservers in %s", path)
	}
	return conf.Servers[0], nil
}

// withPort appends the default port for network when server has none.
func withPort(server, network string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	port := "53"
	if network == NetTLS {
		port = "853"
	}
	return net.JoinHostPort(strings.Trim(server, "[]"), port)
}
