package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions diisi dari config. CSP kosong tidak mengirim header
// Content-Security-Policy, HSTSMaxAge 0 mematikan HSTS.
type SecurityOptions struct {
	ContentSecurityPolicy string
	HSTSMaxAge            time.Duration
}

func SecurityHeaders(opts SecurityOptions) gin.HandlerFunc {
	hsts := ""
	if opts.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.FormatInt(int64(opts.HSTSMaxAge/time.Second), 10) + "; includeSubDomains"
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		if opts.ContentSecurityPolicy != "" {
			h.Set("Content-Security-Policy", opts.ContentSecurityPolicy)
		}
		if hsts != "" {
			h.Set("Strict-Transport-Security", hsts)
		}

		c.Next()
	}
}
