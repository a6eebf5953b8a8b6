// Package testutil provides shared test helpers for resolver-backed tests.
package testutil

import (
	"context"
	"io"
	"log/slog"

	"github.com/tbckr/dkimkey/internal/dkim"
)

// TestPublicKey is a 1024-bit RSA SubjectPublicKeyInfo, base64-encoded as it
// appears in a p= tag.
const TestPublicKey = "MIGfMA0GCSqGSIb3DQEBAQUAA4GNADCBiQ" +
	"KBgQDwIRP/UC3SBsEmGqZ9ZJW3/DkMoGeLnQg1fWn7/zYt" +
	"IxN2SnFCjxOCKG9v3b4jYfcTNh5ijSsq631uBItLa7od+v" +
	"/RtdC2UzJ1lWT947qR+Rcac2gbto/NMqJ0fzfVjH4OuKhi" +
	"tdY9tf6mcwGjaNBcWToIMmPSPDdQPNUYckcQ2QIDAQAB"

// TestRecord is a complete DKIM key record carrying TestPublicKey.
const TestRecord = "v=DKIM1; g=*; k=rsa; p=" + TestPublicKey

// MockResolver implements dkim.TXTResolver for testing.
// Each field is a function so tests can set only the methods they need.
type MockResolver struct {
	LookupTXTFn func(ctx context.Context, name string) ([]string, error)
}

var _ dkim.TXTResolver = (*MockResolver)(nil)

// LookupTXT implements dkim.TXTResolver.
func (m *MockResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	if m.LookupTXTFn != nil {
		return m.LookupTXTFn(ctx, name)
	}
	return nil, nil
}

// StaticTXT returns a resolver answering every lookup with txts.
func StaticTXT(txts ...string) *MockResolver {
	return &MockResolver{
		LookupTXTFn: func(_ context.Context, _ string) ([]string, error) {
			return txts, nil
		},
	}
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
