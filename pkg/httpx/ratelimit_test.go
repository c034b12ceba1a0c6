package httpx_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glucocare/carelink/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/invite-codes", nil)
	req.RemoteAddr = addr
	return req
}

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := requestFrom("192.168.1.1:12345")
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("ignores forwarding headers", func(t *testing.T) {
		req := requestFrom("192.168.1.1:12345")
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})
}

func TestForwardedIPKeyExtractor(t *testing.T) {
	trusted, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/8", "172.16.0.5"})
	require.NoError(t, err)
	extract := httpx.ForwardedIPKeyExtractor(trusted)

	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{name: "untrusted peer ignores headers", remote: "198.51.100.7:4000", xff: "203.0.113.1", want: "198.51.100.7"},
		{name: "trusted peer uses rightmost untrusted hop", remote: "10.1.2.3:4000", xff: "1.1.1.1, 203.0.113.1, 10.9.9.9", want: "203.0.113.1"},
		{name: "bare address is trusted", remote: "172.16.0.5:4000", xff: "203.0.113.9", want: "203.0.113.9"},
		{name: "trusted peer falls back to X-Real-IP", remote: "10.1.2.3:4000", xri: "203.0.113.2", want: "203.0.113.2"},
		{name: "all hops trusted uses the first", remote: "10.1.2.3:4000", xff: "10.0.0.9, 10.0.0.8", want: "10.0.0.9"},
		{name: "trusted peer without headers", remote: "10.1.2.3:4000", want: "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestFrom(tt.remote)
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			require.Equal(t, tt.want, extract(req))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := httpx.ParseTrustedProxies([]string{"", " 10.0.0.0/8 ", "::1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "10.0.0.0/8", got[0].String())
	require.Equal(t, "::1/128", got[1].String())

	_, err = httpx.ParseTrustedProxies([]string{"not-an-ip"})
	require.Error(t, err)
}

func TestSubjectKeyExtractor(t *testing.T) {
	req := requestFrom("192.168.1.1:12345")
	require.Empty(t, httpx.SubjectKeyExtractor(req))

	req = req.WithContext(httpx.WithSubject(req.Context(), "patient-1"))
	require.Equal(t, "patient-1", httpx.SubjectKeyExtractor(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows requests under limit", func(t *testing.T) {
		config := httpx.RateLimitConfig{RequestsPerWindow: 5, Window: time.Second, Burst: 5}
		limited := httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor)(okHandler())

		for i := range 5 {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		limited := httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor)(okHandler())

		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.JSONEq(t,
			`{"error":"Too many requests. Please try again later.","code":"rate_limit_exceeded"}`,
			rec.Body.String())
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		limited := httpx.RateLimitByIP(config)(okHandler())

		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom("192.168.1.2:12345"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("subjects behind one IP are tracked separately", func(t *testing.T) {
		config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		limited := httpx.RateLimitBySubject(config)(okHandler())

		asSubject := func(subject string) *http.Request {
			req := requestFrom("10.0.0.1:5555")
			return req.WithContext(httpx.WithSubject(req.Context(), subject))
		}

		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, asSubject("patient-1"))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		limited.ServeHTTP(rec, asSubject("patient-1"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = httptest.NewRecorder()
		limited.ServeHTTP(rec, asSubject("patient-2"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("subject limit ignores rotating forwarded addresses", func(t *testing.T) {
		config := httpx.RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}
		limited := httpx.RateLimitBySubject(config)(okHandler())

		limitedCount := 0
		for i := range 20 {
			req := requestFrom(fmt.Sprintf("10.0.0.%d:5555", i))
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
			req = req.WithContext(httpx.WithSubject(req.Context(), "caregiver-1"))

			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)
			if rec.Code == http.StatusTooManyRequests {
				limitedCount++
			}
		}
		require.Equal(t, 15, limitedCount)
	})

	t.Run("IP limit ignores spoofed forwarded addresses", func(t *testing.T) {
		config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		limited := httpx.RateLimitByIP(config)(okHandler())

		for i := range 3 {
			req := requestFrom("198.51.100.7:4000")
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))

			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)
			if i == 0 {
				require.Equal(t, http.StatusOK, rec.Code)
			} else {
				require.Equal(t, http.StatusTooManyRequests, rec.Code)
			}
		}
	})

	t.Run("IP limit follows clients behind a trusted proxy", func(t *testing.T) {
		trusted, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/8"})
		require.NoError(t, err)
		config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		limited := httpx.RateLimitByIP(config, trusted...)(okHandler())

		for _, client := range []string{"203.0.113.1", "203.0.113.2"} {
			req := requestFrom("10.0.0.1:4000")
			req.Header.Set("X-Forwarded-For", client)

			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, client)
		}
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		limited := httpx.RateLimitMiddleware(config, func(*http.Request) string { return "" })(okHandler())

		for range 3 {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRateLimitProfiles(t *testing.T) {
	profiles := map[string]httpx.RateLimitConfig{
		"issue":  httpx.IssueLimit,
		"redeem": httpx.RedeemLimit,
		"read":   httpx.ReadLimit,
	}

	for name, config := range profiles {
		t.Run(name, func(t *testing.T) {
			require.Greater(t, config.RequestsPerWindow, 0)
			require.Greater(t, config.Window, time.Duration(0))
			require.Greater(t, config.Burst, 0)
		})
	}

	// Redemption is the guessable surface, so it is the tightest.
	require.Less(t, httpx.RedeemLimit.RequestsPerWindow, httpx.IssueLimit.RequestsPerWindow)
	require.Less(t, httpx.IssueLimit.RequestsPerWindow, httpx.ReadLimit.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	defaultConfig := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	t.Run("NoEnvVarsUsesDefaults", func(t *testing.T) {
		require.Equal(t, defaultConfig, httpx.ParseRateLimitFromEnv("TEST", defaultConfig))
	})

	t.Run("OverrideAllParameters", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "200")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_TEST_BURST", "250")

		config := httpx.ParseRateLimitFromEnv("TEST", defaultConfig)
		require.Equal(t, 200, config.RequestsPerWindow)
		require.Equal(t, 30*time.Second, config.Window)
		require.Equal(t, 250, config.Burst)
	})

	t.Run("InvalidValuesUseDefaults", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "invalid")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "-10")
		t.Setenv("RATELIMIT_TEST_BURST", "0")

		require.Equal(t, defaultConfig, httpx.ParseRateLimitFromEnv("TEST", defaultConfig))
	})
}

func BenchmarkRateLimitManyIPs(b *testing.B) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 1000000, Window: time.Minute, Burst: 1000}
	limited := httpx.RateLimitByIP(config)(okHandler())

	for i := 0; b.Loop(); i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom(fmt.Sprintf("192.168.%d.%d:12345", i%255, (i/255)%255)))
	}
}
