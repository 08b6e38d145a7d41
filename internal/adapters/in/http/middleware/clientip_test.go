package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrefixes(t *testing.T) {
	prefixes, err := ParsePrefixes([]string{"10.0.0.0/8", " 192.168.1.7 ", "", "fd00::/8", "10.1.2.3/8"})
	require.NoError(t, err)

	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.7/32"),
		netip.MustParsePrefix("fd00::/8"),
		netip.MustParsePrefix("10.0.0.0/8"),
	}, prefixes)

	_, err = ParsePrefixes([]string{"not-an-ip"})
	assert.Error(t, err)
}

func TestContainsIP(t *testing.T) {
	prefixes := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	assert.True(t, ContainsIP("10.2.3.4", prefixes))
	assert.True(t, ContainsIP("::ffff:10.2.3.4", prefixes))
	assert.False(t, ContainsIP("11.0.0.1", prefixes))
	assert.False(t, ContainsIP("garbage", prefixes))
	assert.False(t, ContainsIP("10.0.0.1", nil))
}

func TestGetClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("172.16.0.0/12")}

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "direct client",
			remoteAddr: "203.0.113.9:5555",
			want:       "203.0.113.9",
		},
		{
			name:       "untrusted peer cannot spoof forwarded header",
			remoteAddr: "203.0.113.9:5555",
			headers:    map[string]string{"X-Forwarded-For": "1.1.1.1"},
			want:       "203.0.113.9",
		},
		{
			name:       "trusted proxy forwarded for",
			remoteAddr: "172.17.0.2:80",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.4, 172.17.0.2"},
			want:       "198.51.100.4",
		},
		{
			name:       "trusted proxy real ip",
			remoteAddr: "172.17.0.2:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.5"},
			want:       "198.51.100.5",
		},
		{
			name:       "trusted proxy without headers",
			remoteAddr: "172.17.0.2:80",
			want:       "172.17.0.2",
		},
		{
			name:       "ipv6 peer",
			remoteAddr: "[::1]:8080",
			want:       "::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(req, trusted))
		})
	}
}
