package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"fintrack/internal/ratelimit"
	"fintrack/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"first forwarded hop", map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, "192.0.2.1:1234", "203.0.113.7"},
		{"real ip header", map[string]string{"X-Real-IP": "198.51.100.4"}, "192.0.2.1:1234", "198.51.100.4"},
		{"socket address", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"address without port", nil, "192.0.2.9", "192.0.2.9"},
		{"nothing known", nil, "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientID(req))
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	srv := newTestServer(store.NewMemory(), &fakeQuotes{}, newTestLimiters(ratelimit.NewMemoryStore(), 3))
	router := srv.Router()

	get := func(client string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/api/categories", nil)
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("should allow requests up to the limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			resp := get("203.0.113.1")
			assertStatusCode(t, http.StatusOK, resp.Code)
			assert.Equal(t, "3", resp.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, strconv.Itoa(2-i), resp.Header().Get("X-RateLimit-Remaining"))
		}
	})

	t.Run("should reject the request over the limit", func(t *testing.T) {
		resp := get("203.0.113.1")

		assertStatusCode(t, http.StatusTooManyRequests, resp.Code)
		assert.Equal(t, "0", resp.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, resp.Header().Get("X-RateLimit-Reset"))

		retryAfter, err := strconv.Atoi(resp.Header().Get("Retry-After"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, retryAfter, 1)
		assert.LessOrEqual(t, retryAfter, 60)

		errResp := parseErrorResponse(t, resp)
		assert.Equal(t, "Too many requests", errResp.Error)
		assert.Equal(t, "You have exceeded the rate limit. Please try again later.", errResp.Message)
	})

	t.Run("should count clients separately", func(t *testing.T) {
		resp := get("203.0.113.2")

		assertStatusCode(t, http.StatusOK, resp.Code)
	})

	t.Run("should count tiers separately", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/recurring/process", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assertStatusCode(t, http.StatusOK, rec.Code)
	})
}

func TestCachePresets(t *testing.T) {
	assert.Equal(t, "public, s-maxage=300, max-age=60, stale-while-revalidate=3600", cacheTransactions.cacheControl())
	assert.Equal(t, "public, s-maxage=300, stale-while-revalidate=3600", cacheTransactions.cdnCacheControl())
	assert.Equal(t, "public, s-maxage=600, max-age=300, stale-while-revalidate=86400", cacheSummary.cacheControl())
	assert.Equal(t, "public, s-maxage=300, max-age=60, stale-while-revalidate=3600", cacheStocks.cacheControl())
	assert.Equal(t, "public, s-maxage=3600, max-age=3600, stale-while-revalidate=86400", cacheCategories.cacheControl())
}

func TestNoCacheOnWrites(t *testing.T) {
	cleanupTestData()

	resp := makeJSONRequest(t, "POST", "/api/categories", map[string]any{"name": "Gifts", "type": "expense"})

	assertStatusCode(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", resp.Header().Get("Pragma"))
	assert.Equal(t, "0", resp.Header().Get("Expires"))
	assert.Empty(t, resp.Header().Get("CDN-Cache-Control"))
}

func TestSwaggerDoc(t *testing.T) {
	cleanupTestData()

	resp := makeRequest("GET", "/swagger/doc.json", nil)

	assertStatusCode(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "/api/expenses")
	assert.Contains(t, resp.Body.String(), "/api/recurring/process")
}

func TestRequestScopedLogging(t *testing.T) {
	var buf bytes.Buffer
	quotes := &fakeQuotes{errs: map[string]error{"AAPL": errUpstream}}
	srv := newTestServerWithLog(store.NewMemory(), quotes, newTestLimiters(ratelimit.NewMemoryStore(), 100), zerolog.New(&buf))

	req := httptest.NewRequest("GET", "/api/stocks/info/aapl", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.50")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assertStatusCode(t, http.StatusBadGateway, rec.Code)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] != "Error fetching stock quote" {
			continue
		}
		found = true
		assert.Equal(t, "203.0.113.50", entry["client"])
		assert.Equal(t, "AAPL", entry["ticker"])
		assert.Equal(t, "error", entry["level"])
	}
	assert.True(t, found, "quote failure was not logged: %s", buf.String())
}
