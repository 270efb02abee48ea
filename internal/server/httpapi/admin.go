package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
)

type entryRequest struct {
	Mode          string `json:"mode"`
	LinkType      string `json:"link_type"`
	CustomRoute   string `json:"custom_route"`
	TargetURL     string `json:"target_url"`
	TargetType    string `json:"target_type"`
	TargetID      string `json:"target_id"`
	TargetAction  string `json:"target_action"`
	SourceType    string `json:"source_type"`
	SourceID      string `json:"source_id"`
	SourceField   string `json:"source_field"`
	ManualContent string `json:"manual_content"`
	LabelText     string `json:"label_text"`
}

type generateRequest struct {
	RecordType string `json:"record_type"`
	RecordID   string `json:"record_id"`
	LinkType   string `json:"link_type"`
}

type entryResponse struct {
	ID              string `json:"id"`
	Mode            string `json:"mode"`
	LinkType        string `json:"link_type"`
	LabelText       string `json:"label_text,omitempty"`
	ComputedContent string `json:"computed_content,omitempty"`
}

type tokenResponse struct {
	ID              string     `json:"id"`
	EntryID         string     `json:"entry_id"`
	Token           string     `json:"token"`
	Destination     string     `json:"destination"`
	Status          string     `json:"status"`
	ExpiresOn       *time.Time `json:"expires_on,omitempty"`
	MaxUses         int        `json:"max_uses"`
	UseCount        int        `json:"use_count"`
	RateLimitPerMin int        `json:"rate_limit_per_min"`
}

type scanResponse struct {
	Seq            string    `json:"seq"`
	ScannedAt      time.Time `json:"scanned_at"`
	User           string    `json:"user,omitempty"`
	IP             string    `json:"ip"`
	Result         string    `json:"result"`
	UseCountAtScan int       `json:"use_count_at_scan"`
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if !identity(r).CanGenerate() {
		writeError(w, http.StatusForbidden, "not allowed to manage entries")
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry := &models.Entry{
		Mode:          models.Mode(req.Mode),
		LinkType:      models.LinkType(req.LinkType),
		CustomRoute:   req.CustomRoute,
		TargetURL:     req.TargetURL,
		TargetType:    req.TargetType,
		TargetID:      req.TargetID,
		TargetAction:  req.TargetAction,
		SourceType:    req.SourceType,
		SourceID:      req.SourceID,
		SourceField:   req.SourceField,
		ManualContent: req.ManualContent,
		LabelText:     req.LabelText,
	}
	if entry.Mode == "" {
		entry.Mode = models.ModeURL
	}
	if entry.LinkType == "" {
		entry.LinkType = models.LinkDirect
	}

	entry, err := s.entries.Create(r.Context(), entry)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.entries.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	if !s.checkGeneration(w, r) {
		return
	}
	content, err := s.encoding.ComputeAndPersist(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

// handleGenerateForRecord is the one-step flow behind a "generate"
// button on an application record: find or create the URL-mode entry
// targeting it and compute its content.
func (s *Server) handleGenerateForRecord(w http.ResponseWriter, r *http.Request) {
	if !s.checkGeneration(w, r) {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RecordType == "" || req.RecordID == "" {
		writeError(w, http.StatusBadRequest, "record_type and record_id are required")
		return
	}

	entry, err := s.encoding.GenerateForRecord(r.Context(), req.RecordType, req.RecordID, models.LinkType(req.LinkType))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	if !s.checkGeneration(w, r) {
		return
	}
	entry, err := s.entries.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	token, err := s.lifecycle.Issue(r.Context(), entry)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTokenResponse(token))
}

func (s *Server) handleEnsureToken(w http.ResponseWriter, r *http.Request) {
	if !s.checkGeneration(w, r) {
		return
	}
	entry, err := s.entries.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	token, err := s.lifecycle.EnsureActive(r.Context(), entry)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenResponse(token))
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	if !identity(r).IsManager() {
		writeError(w, http.StatusForbidden, "only a manager may rotate tokens")
		return
	}
	entry, err := s.entries.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	token, err := s.lifecycle.Rotate(r.Context(), entry)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenResponse(token))
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	if !identity(r).IsManager() {
		writeError(w, http.StatusForbidden, "only a manager may revoke tokens")
		return
	}
	if err := s.lifecycle.Revoke(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	if !identity(r).IsManager() {
		writeError(w, http.StatusForbidden, "only a manager may read the audit trail")
		return
	}
	recs, err := s.scans.ListByToken(r.Context(), mux.Vars(r)["id"], 100)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	out := make([]scanResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, scanResponse{
			Seq:            rec.Seq,
			ScannedAt:      rec.ScannedAt,
			User:           rec.User,
			IP:             rec.IP,
			Result:         string(rec.Result),
			UseCountAtScan: rec.UseCountAtScan,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// checkGeneration enforces the generator role and the per-user daily
// generation quota (managers exempt).
func (s *Server) checkGeneration(w http.ResponseWriter, r *http.Request) bool {
	id := identity(r)
	if !id.CanGenerate() {
		writeError(w, http.StatusForbidden, "not allowed to generate")
		return false
	}
	policy := s.cfg.Policy()
	ok, err := s.limiter.AllowGeneration(r.Context(), id.UserID, policy.GenPerUserPerDay, id.QuotaExempt())
	if err != nil {
		s.serviceError(w, r, err)
		return false
	}
	if !ok {
		writeError(w, http.StatusTooManyRequests, "generation rate limit exceeded for today")
		return false
	}
	return true
}

// serviceError maps service failures to status codes. Configuration and
// issuance errors surface verbatim: they are operator-facing.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrConfiguration), errors.Is(err, common.ErrIssuance):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error(r.Context(), "admin operation failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toEntryResponse(e *models.Entry) entryResponse {
	return entryResponse{
		ID:              e.ID,
		Mode:            string(e.Mode),
		LinkType:        string(e.LinkType),
		LabelText:       e.LabelText,
		ComputedContent: e.ComputedContent,
	}
}

func toTokenResponse(t *models.Token) tokenResponse {
	return tokenResponse{
		ID:              t.ID,
		EntryID:         t.EntryID,
		Token:           t.Token,
		Destination:     t.Destination,
		Status:          string(t.Status),
		ExpiresOn:       t.ExpiresOn,
		MaxUses:         t.MaxUses,
		UseCount:        t.UseCount,
		RateLimitPerMin: t.RateLimitPerMin,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
