// Package httpapi exposes the public resolver endpoint and the
// JWT-protected administration API over HTTP.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/qrfoundry/qrfoundry/internal/logging"
	"github.com/qrfoundry/qrfoundry/internal/server/config"
	"github.com/qrfoundry/qrfoundry/internal/server/encoding"
	"github.com/qrfoundry/qrfoundry/internal/server/lifecycle"
	"github.com/qrfoundry/qrfoundry/internal/server/ratelimit"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/entries"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/scans"
	"github.com/qrfoundry/qrfoundry/internal/server/resolver"
)

// Server bundles the services the HTTP handlers dispatch into.
type Server struct {
	cfg       *config.Config
	encoding  *encoding.Service
	lifecycle *lifecycle.Service
	resolver  *resolver.Service
	entries   entries.Repository
	scans     scans.Repository
	limiter   *ratelimit.Limiter
	logger    logging.Logger
}

// NewServer constructs the HTTP server facade.
func NewServer(
	cfg *config.Config,
	encodingSvc *encoding.Service,
	lifecycleSvc *lifecycle.Service,
	resolverSvc *resolver.Service,
	entryRepo entries.Repository,
	scanRepo scans.Repository,
	limiter *ratelimit.Limiter,
	logger logging.Logger,
) *Server {
	return &Server{
		cfg:       cfg,
		encoding:  encodingSvc,
		lifecycle: lifecycleSvc,
		resolver:  resolverSvc,
		entries:   entryRepo,
		scans:     scanRepo,
		limiter:   limiter,
		logger:    logger,
	}
}

// Router wires all routes. The resolver endpoint is public; everything
// under /api requires a valid identity token.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	r.HandleFunc("/qr", s.handleResolve).Methods("GET")
	r.HandleFunc("/qr/{token}", s.handleResolve).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/entries", s.handleCreateEntry).Methods("POST")
	api.HandleFunc("/entries/{id}", s.handleGetEntry).Methods("GET")
	api.HandleFunc("/entries/{id}/compute", s.handleCompute).Methods("POST")
	api.HandleFunc("/generate-for-record", s.handleGenerateForRecord).Methods("POST")
	api.HandleFunc("/entries/{id}/tokens", s.handleIssue).Methods("POST")
	api.HandleFunc("/entries/{id}/ensure-token", s.handleEnsureToken).Methods("POST")
	api.HandleFunc("/entries/{id}/rotate", s.handleRotate).Methods("POST")
	api.HandleFunc("/tokens/{id}/revoke", s.handleRevoke).Methods("POST")
	api.HandleFunc("/tokens/{id}/scans", s.handleListScans).Methods("GET")

	return r
}
