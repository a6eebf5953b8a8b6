package httpclient

import (
	"github.com/imroc/req/v3"

	"github.com/tbckr/dkimkey/internal/ratelimit"
)

// AttachRateLimit gates every outbound request on limiter.Wait.
// No retry policy is installed: a DNS lookup is one request, and a failed
// request surfaces to the caller unchanged.
func AttachRateLimit(client *req.Client, limiter *ratelimit.Limiter) {
	client.OnBeforeRequest(func(_ *req.Client, r *req.Request) error {
		return limiter.Wait(r.Context())
	})
}
