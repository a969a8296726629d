package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestGetLimiterIsolatesIPs(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)

	if !l.GetLimiter("10.0.0.1").Allow() {
		t.Fatal("first request from a fresh IP must pass")
	}
	if l.GetLimiter("10.0.0.1").Allow() {
		t.Fatal("second request must be over the burst budget")
	}
	if !l.GetLimiter("10.0.0.2").Allow() {
		t.Fatal("a different IP must have its own bucket")
	}
}

func TestGetLimiterReturnsSameBucket(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 5)

	if l.GetLimiter("10.0.0.1") != l.GetLimiter("10.0.0.1") {
		t.Fatal("repeated lookups must share one bucket per IP")
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		remoteAddr string
		want       string
	}{
		{"192.168.1.10:54321", "192.168.1.10"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"192.168.1.10", "192.168.1.10"},
		{"", "unknown_ip"},
	}

	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tc.remoteAddr
		if got := ClientIP(r); got != tc.want {
			t.Errorf("ClientIP(%q) = %q, want %q", tc.remoteAddr, got, tc.want)
		}
	}
}

func TestMiddlewareRejectsOverBudget(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 2)

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		r := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)
		if rec.Code != want {
			t.Errorf("request %d status = %d, want %d", i+1, rec.Code, want)
		}
	}
}
