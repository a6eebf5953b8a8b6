package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/imroc/req/v3"

	"github.com/tbckr/dkimkey/internal/version"
)

// DefaultUserAgent is the User-Agent sent when no explicit value is configured.
// var (not const) because version.Version is a link-time variable.
var DefaultUserAgent = "dkimkey/" + version.Version + " (+https://github.com/tbckr/dkimkey)"

// New builds a *req.Client for DNS-over-HTTPS queries.
// If userAgent is empty, DefaultUserAgent is used.
// proxy supports http://, https://, and socks5:// URLs via req's SetProxyURL.
// When proxy is empty, HTTP_PROXY / HTTPS_PROXY / NO_PROXY environment variables
// are honoured automatically via http.ProxyFromEnvironment.
// When debug is true and logger is non-nil, an OnAfterResponse hook is attached
// that logs the HTTP method, URL, and status code at DEBUG level.
func New(proxy, userAgent string, logger *slog.Logger, debug bool) (*req.Client, error) {
	client := req.NewClient()

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetUserAgent(userAgent)

	if proxy != "" {
		if err := validateProxy(proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", proxy, err)
		}
		client.SetProxyURL(proxy)
	} else {
		client.SetProxy(http.ProxyFromEnvironment)
	}

	if debug && logger != nil {
		attachDebugHook(client, logger)
	}

	return client, nil
}

// attachDebugHook registers an OnAfterResponse hook that logs the HTTP method,
// URL, and status code at DEBUG level.
func attachDebugHook(client *req.Client, logger *slog.Logger) {
	client.OnAfterResponse(func(_ *req.Client, resp *req.Response) error {
		if resp.Request == nil || resp.Request.RawRequest == nil {
			return nil
		}
		logger.Debug("http response",
			"method", resp.Request.RawRequest.Method,
			"url", resp.Request.RawRequest.URL.String(),
			"status", resp.StatusCode,
		)
		return nil
	})
}

// validateProxy performs a basic check that the proxy URL has a recognised scheme.
func validateProxy(proxy string) error {
	for _, scheme := range []string{"http://", "https://", "socks5://"} {
		if strings.HasPrefix(proxy, scheme) {
			return nil
		}
	}
	return fmt.Errorf("proxy scheme must be http://, https://, or socks5://")
}
