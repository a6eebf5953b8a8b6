package dkim

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// TXTResolver looks up the TXT values published at a DNS name.
//
// An existing name without TXT records must yield no values and a nil
// error, so that it is reported as ErrNoRecord. *net.Resolver has the right
// method set but returns a not-found error in that case, so it conflates
// ErrNoRecord with ErrDNSLookup.
type TXTResolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// Pair identifies a DKIM key by signing domain and selector.
type Pair struct {
	Domain   string `json:"domain"`
	Selector string `json:"selector"`
}

// RecordName returns the DNS name the key is published at.
func (p Pair) RecordName() string {
	return RecordName(p.Domain, p.Selector)
}

// RecordName returns "<selector>._domainkey.<domain>".
func RecordName(domain, selector string) string {
	return selector + "._domainkey." + domain
}

// PublicKey is a key record that passed structural validation.
type PublicKey struct {
	Record string
	Tags   TagSet
	Key    *rsa.PublicKey
}

// Bits returns the modulus size of the key.
func (pk *PublicKey) Bits() int {
	if pk == nil || pk.Key == nil || pk.Key.N == nil {
		return 0
	}
	return pk.Key.N.BitLen()
}

// Option configures a KeyChecker.
type Option func(*KeyChecker)

// WithRequiredTags makes the checker reject records where any of the given
// tags is missing or differs (case-insensitively) from the expected value,
// e.g. {"v": "DKIM1", "k": "rsa"}. Without it only p= is inspected.
func WithRequiredTags(tags map[string]string) Option {
	return func(c *KeyChecker) {
		if len(tags) == 0 {
			return
		}
		c.required = make(map[string]string, len(tags))
		for k, v := range tags {
			c.required[k] = v
		}
	}
}

// KeyChecker resolves and validates DKIM public keys. It holds no mutable
// state and is safe for concurrent use.
type KeyChecker struct {
	resolver TXTResolver
	required map[string]string
}

// NewKeyChecker returns a KeyChecker that queries r.
func NewKeyChecker(r TXTResolver, opts ...Option) *KeyChecker {
	c := &KeyChecker{resolver: r}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckPublicKey reports whether a structurally valid RSA public key is
// published for selector at domain. It never returns false with a nil
// error: every failure is one of ErrDNSLookup, ErrNoRecord,
// ErrNoPublicKeyTag, ErrInvalidPublicKey or ErrTagMismatch.
//
// Exactly one DNS query is issued and it is not retried. ctx bounds it.
func (c *KeyChecker) CheckPublicKey(ctx context.Context, domain, selector string) (bool, error) {
	if _, err := c.LookupPublicKey(ctx, domain, selector); err != nil {
		return false, err
	}
	return true, nil
}

// LookupPublicKey runs the same checks as CheckPublicKey and returns the
// decoded key along with the parsed record.
func (c *KeyChecker) LookupPublicKey(ctx context.Context, domain, selector string) (*PublicKey, error) {
	record := RecordName(domain, selector)

	txts, err := c.resolver.LookupTXT(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("%w: selector lookup for %s: %w", ErrDNSLookup, record, err)
	}

	value, ok := firstValue(txts)
	if !ok {
		return nil, fmt.Errorf("%w available for %s", ErrNoRecord, record)
	}

	tags := ParseTags(value)
	p, ok := tags.Get("p")
	if !ok {
		return nil, fmt.Errorf("%w in %s", ErrNoPublicKeyTag, record)
	}

	key, err := DecodePublicKey(p)
	if err != nil {
		return nil, fmt.Errorf("%w: p=%s in %s: %w", ErrInvalidPublicKey, p, record, err)
	}

	if err := c.checkRequired(record, tags); err != nil {
		return nil, err
	}

	return &PublicKey{Record: record, Tags: tags, Key: key}, nil
}

func (c *KeyChecker) checkRequired(record string, tags TagSet) error {
	for name, want := range c.required {
		got, ok := tags.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s has no %s= tag", ErrTagMismatch, record, name)
		}
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("%w: %s has %s=%s, want %s", ErrTagMismatch, record, name, got, want)
		}
	}
	return nil
}

// firstValue returns the first non-empty TXT value. Resolvers already join
// the character-strings of a single record.
func firstValue(txts []string) (string, bool) {
	for _, txt := range txts {
		if strings.TrimSpace(txt) != "" {
			return txt, true
		}
	}
	return "", false
}

// errRevoked is reported for an empty p= tag.
var errRevoked = errors.New("key revoked")

// DecodePublicKey decodes the value of a p= tag: base64 (folding whitespace
// allowed) over a DER SubjectPublicKeyInfo that must hold an RSA key. Only
// the structure is checked; the key is not exercised.
func DecodePublicKey(p string) (*rsa.PublicKey, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, p)
	if cleaned == "" {
		return nil, errRevoked
	}

	der, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}

	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("expected RSA public key, got %T", pub)
	}
	return rsaPub, nil
}
