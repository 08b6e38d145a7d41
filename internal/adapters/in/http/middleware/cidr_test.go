package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAllowCIDRs(t *testing.T) {
	allowed := []netip.Prefix{netip.MustParsePrefix("192.168.0.0/16")}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := AllowCIDRs(allowed, nil, zerolog.Nop())(ok)

	tests := []struct {
		name       string
		remoteAddr string
		wantStatus int
	}{
		{"allowed range", "192.168.4.20:4000", http.StatusNoContent},
		{"loopback v4", "127.0.0.1:4000", http.StatusNoContent},
		{"loopback v6", "[::1]:4000", http.StatusNoContent},
		{"outside range", "8.8.8.8:4000", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			req.RemoteAddr = tt.remoteAddr
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"forbidden"}`, rec.Body.String())
			}
		})
	}
}

func TestAllowCIDRs_EmptyAllowsAll(t *testing.T) {
	handler := AllowCIDRs(nil, nil, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "8.8.8.8:4000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
