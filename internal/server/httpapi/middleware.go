package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/qrfoundry/qrfoundry/internal/server/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// authMiddleware requires a valid bearer token on the admin API and
// stores the parsed identity in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.identityFrom(r)
		if id.Anonymous() {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	})
}

// identityFrom parses the Authorization header. A missing or invalid
// token yields a nil (anonymous) identity; the resolver endpoint
// tolerates that, the admin API does not.
func (s *Server) identityFrom(r *http.Request) *auth.Identity {
	header := r.Header.Get("Authorization")
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return nil
	}
	id, err := auth.ParseToken(tokenString, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil
	}
	return id
}

func identity(r *http.Request) *auth.Identity {
	id, _ := r.Context().Value(identityKey).(*auth.Identity)
	return id
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// secHeaders sets the no-cache, no-index headers every resolver
// response carries.
func secHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Cache-Control", "no-store")
	h.Set("X-Robots-Tag", "noindex, nofollow")
}
