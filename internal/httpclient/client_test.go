package httpclient_test

import (
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/dkimkey/internal/httpclient"
)

func TestNew_Proxies(t *testing.T) {
	for _, proxy := range []string{"", "http://proxy.example.com:8080", "https://proxy.example.com:8080", "socks5://127.0.0.1:9050"} {
		client, err := httpclient.New(proxy, "", nil, false)
		require.NoError(t, err, "proxy=%q", proxy)
		assert.NotNil(t, client)
	}
}

func TestNew_InvalidProxyScheme(t *testing.T) {
	_, err := httpclient.New("ftp://proxy.example.com:8080", "", nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "proxy scheme")
}

func TestNew_UserAgent(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"default", "", httpclient.DefaultUserAgent},
		{"custom", "MyBot/1.0", "MyBot/1.0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, err := httpclient.New("", tc.userAgent, nil, false)
			require.NoError(t, err)

			httpmock.ActivateNonDefault(client.GetClient())
			t.Cleanup(httpmock.DeactivateAndReset)

			var got string
			httpmock.RegisterResponder(http.MethodGet, "https://doh.example/dns-query",
				func(r *http.Request) (*http.Response, error) {
					got = r.Header.Get("User-Agent")
					return httpmock.NewStringResponse(http.StatusOK, ""), nil
				})

			_, err = client.R().Get("https://doh.example/dns-query")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNew_DefaultUserAgentNamesTool(t *testing.T) {
	assert.True(t, strings.HasPrefix(httpclient.DefaultUserAgent, "dkimkey/"))
}

func TestNew_WithDebugLogger(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := httpclient.New("", "", logger, true)
	require.NoError(t, err)

	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder(http.MethodGet, "https://doh.example/dns-query",
		httpmock.NewStringResponder(http.StatusOK, ""))

	_, err = client.R().Get("https://doh.example/dns-query")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "http response")
	assert.Contains(t, buf.String(), "status=200")
}

func TestNew_NilLoggerWithDebug(t *testing.T) {
	client, err := httpclient.New("", "", nil, true)
	require.NoError(t, err)
	assert.NotNil(t, client)
}
