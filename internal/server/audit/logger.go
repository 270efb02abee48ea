// Package audit appends one scan record per resolution attempt,
// regardless of outcome.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"time"

	"github.com/qrfoundry/qrfoundry/internal/logging"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/scans"
)

// Caps on free-form request fields stored in the audit trail.
const (
	uaMax  = 500
	refMax = 2048
)

// Request carries the caller context of one resolution attempt.
type Request struct {
	User      string
	IP        string
	UserAgent string
	Referer   string
}

// Logger writes the audit trail. A storage failure is logged and
// swallowed: audit trouble must not turn an otherwise-valid resolution
// into an error, and the pipeline has already decided the verdict.
type Logger struct {
	repo   scans.Repository
	logger logging.Logger
	now    func() time.Time
}

// NewLogger constructs an audit logger.
func NewLogger(repo scans.Repository, logger logging.Logger) *Logger {
	return &Logger{repo: repo, logger: logger, now: time.Now}
}

// Record appends one ScanRecord. tokenID may be empty for unknown
// tokens; rawToken is stored only as a hash so audit survives token
// deletion without retaining the bearer string.
func (l *Logger) Record(ctx context.Context, tokenID, rawToken string, req Request, result models.ScanResult, useCountAtScan int, resolvedURL string) {
	rec := &models.ScanRecord{
		TokenID:        tokenID,
		TokenHash:      HashToken(rawToken),
		ScannedAt:      l.now().UTC(),
		User:           req.User,
		IP:             req.IP,
		UserAgent:      truncate(req.UserAgent, uaMax),
		Referer:        truncate(req.Referer, refMax),
		ResolvedURL:    sanitizeURL(resolvedURL),
		Result:         result,
		UseCountAtScan: useCountAtScan,
	}
	if err := l.repo.Append(ctx, rec); err != nil {
		l.logger.Error(ctx, "scan log append failed", "result", string(result), "error", err.Error())
	}
}

// HashToken returns the hex sha256 of a presented token string, or ""
// for an empty token.
func HashToken(raw string) string {
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// sanitizeURL keeps scheme://host/path only; query and fragment may
// carry secrets and are never stored.
func sanitizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + u.Path
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
