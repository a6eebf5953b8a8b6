// Package doh implements a DNS-over-HTTPS (RFC 8484) TXT resolver on top of
// an imroc/req client.
package doh

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
	"github.com/miekg/dns"

	"github.com/tbckr/dkimkey/internal/apperr"
	"github.com/tbckr/dkimkey/internal/resolver"
)

const (
	// DefaultURL is the Quad9 DNS-over-HTTPS endpoint.
	DefaultURL = "https://dns.quad9.net/dns-query"

	// DefaultRPS is the target request rate against a public DoH endpoint.
	DefaultRPS float64 = 5
	// DefaultBurst is the burst capacity above DefaultRPS.
	DefaultBurst = 10

	mediaType = "application/dns-message"
)

// Client resolves TXT records over DNS-over-HTTPS.
type Client struct {
	http *req.Client
	url  string
}

// New returns a Client sending queries to url through client.
// An empty url selects DefaultURL.
func New(client *req.Client, url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{http: client, url: url}
}

// URL returns the endpoint queries are sent to.
func (c *Client) URL() string { return c.url }

// LookupTXT performs one GET request for the TXT records at name.
func (c *Client) LookupTXT(ctx context.Context, name string) ([]string, error) {
	query, err := buildQuery(name)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build DNS query for %q: %w", apperr.ErrRequestFailed, name, err)
	}

	httpResp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", mediaType).
		SetQueryParam("dns", base64.RawURLEncoding.EncodeToString(query)).
		Get(c.url)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: doh request error for %q: %w", apperr.ErrRequestFailed, name, err)
	}
	if !httpResp.IsSuccessState() {
		body := httpResp.String()
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		return nil, fmt.Errorf("%w: %s returned HTTP %d for %q: %q", apperr.ErrRequestFailed, c.url, httpResp.StatusCode, name, body)
	}

	resp, err := parseResponse(httpResp.Bytes())
	if err != nil {
		return nil, err
	}
	return resolver.TXTAnswers(resp, name)
}

// buildQuery packs a recursive TXT query for name. The message id is zero
// so that identical queries are cache friendly for HTTP intermediaries.
func buildQuery(name string) ([]byte, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	m.Id = 0
	m.RecursionDesired = true
	return m.Pack()
}

func parseResponse(data []byte) (*dns.Msg, error) {
	m := new(dns.Msg)
	if err := m.Unpack(data); err != nil {
		return nil, fmt.Errorf("failed to parse DNS response: %w", err)
	}
	return m, nil
}
