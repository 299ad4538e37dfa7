package main

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/logger"
	"fintrack/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// clientID identifies the caller for rate limiting: the first
// X-Forwarded-For hop, then X-Real-IP, then the socket address.
func clientID(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// requestLogger logs one line per request and puts a request-scoped logger
// in the request context.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		client := clientID(c.Request)
		reqLog := log.With().Str("client", client).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))

		c.Next()

		status := c.Writer.Status()
		event := reqLog.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = reqLog.Error()
		case status >= http.StatusBadRequest:
			event = reqLog.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}

// recovery turns panics into a generic 500.
func recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error().Interface("panic", err).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	})
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// rateLimit applies one limiter tier. A failing counter store lets the
// request through.
func rateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), clientID(c.Request))
		if err != nil {
			requestLog(c).Warn().Err(err).Str("limiter", limiter.Name()).Msg("Rate limiter unavailable")
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		h.Set("X-RateLimit-Reset", decision.ResetAt.UTC().Format(time.RFC3339))

		if decision.Limited {
			retryAfter := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			setNoCacheHeaders(c)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error:   "Too many requests",
				Message: "You have exceeded the rate limit. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// cachePreset holds the browser max-age, CDN s-maxage and
// stale-while-revalidate windows, in seconds.
type cachePreset struct {
	maxAge               int
	sMaxAge              int
	staleWhileRevalidate int
}

var (
	cacheCategories   = cachePreset{maxAge: 3600, sMaxAge: 3600, staleWhileRevalidate: 86400}
	cacheTransactions = cachePreset{maxAge: 60, sMaxAge: 300, staleWhileRevalidate: 3600}
	cacheSummary      = cachePreset{maxAge: 300, sMaxAge: 600, staleWhileRevalidate: 86400}
	cacheStocks       = cachePreset{maxAge: 60, sMaxAge: 300, staleWhileRevalidate: 3600}
)

func (p cachePreset) cacheControl() string {
	return fmt.Sprintf("public, s-maxage=%d, max-age=%d, stale-while-revalidate=%d",
		p.sMaxAge, p.maxAge, p.staleWhileRevalidate)
}

func (p cachePreset) cdnCacheControl() string {
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", p.sMaxAge, p.staleWhileRevalidate)
}

// cacheHeaders advertises a preset on read endpoints. Error responses
// overwrite it with no-cache headers.
func cacheHeaders(p cachePreset) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", p.cacheControl())
		h.Set("CDN-Cache-Control", p.cdnCacheControl())
		c.Next()
	}
}

func noCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		setNoCacheHeaders(c)
		c.Next()
	}
}

func setNoCacheHeaders(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	h.Del("CDN-Cache-Control")
}
