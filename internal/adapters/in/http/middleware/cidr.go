package middleware

import (
	"net/http"
	"net/netip"

	"github.com/rs/zerolog"

	"github.com/bnema/stevedore/internal/adapters/in/http/httputil"
	"github.com/bnema/stevedore/internal/logging"
)

var loopback = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("::1/128"),
}

// AllowCIDRs rejects clients outside allowed with 403. Loopback is always
// allowed. An empty list lets every client through.
func AllowCIDRs(allowed, trusted []netip.Prefix, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(allowed) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := GetClientIP(r, trusted)
			if ContainsIP(clientIP, loopback) || ContainsIP(clientIP, allowed) {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn().
				Str(logging.FieldLayer, "adapter").
				Str(logging.FieldAdapter, "http").
				Str(logging.FieldMethod, r.Method).
				Str(logging.FieldPath, r.URL.Path).
				Str(logging.FieldClientIP, clientIP).
				Msg("access denied by CIDR allowlist")

			writeError(w, http.StatusForbidden, "forbidden")
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	httputil.WriteError(w, status, message)
}
