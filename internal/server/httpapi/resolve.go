package httpapi

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/qrfoundry/qrfoundry/internal/server/audit"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

// handleResolve is the public resolution endpoint: the token arrives as
// a query parameter or path segment, the verdict maps to a redirect or
// a distinguishable status code.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	secHeaders(w)

	raw := r.URL.Query().Get("token")
	if raw == "" {
		raw = mux.Vars(r)["token"]
	}

	req := audit.Request{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	}
	if id := s.identityFrom(r); !id.Anonymous() {
		req.User = id.UserID
	}

	verdict, err := s.resolver.Resolve(r.Context(), raw, req, s.cfg.Policy())
	if err != nil {
		s.logger.Error(r.Context(), "resolve failed", "error", err.Error())
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	switch verdict.Result {
	case models.ScanSuccess:
		http.Redirect(w, r, verdict.Destination, http.StatusFound)
	case models.ScanForbidden:
		// Content outside the redirect allow-list is shown inline.
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(verdict.Destination))
	case models.ScanLoginRequired:
		http.Redirect(w, r, s.loginURL(r), http.StatusFound)
	case models.ScanRateLimited:
		http.Error(w, "too many scans, please try again in a moment", http.StatusTooManyRequests)
	case models.ScanExpired:
		http.Error(w, "this code has expired", http.StatusGone)
	case models.ScanRevoked:
		http.Error(w, "this code has been revoked", http.StatusGone)
	case models.ScanExhausted:
		http.Error(w, "usage limit reached", http.StatusGone)
	default:
		http.Error(w, "this code does not exist", http.StatusNotFound)
	}
}

// loginURL points the caller at the deployment's login page with a
// redirect back to the presented resolver URL.
func (s *Server) loginURL(r *http.Request) string {
	back := r.URL.RequestURI()
	return s.cfg.Policy().BaseURL + "/login?redirect-to=" + url.QueryEscape(back)
}
