// Package resolver implements the validation-and-consumption pipeline a
// presented token passes through: ordered policy checks, the atomic
// use-count consume, and audit of every attempt.
package resolver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/logging"
	"github.com/qrfoundry/qrfoundry/internal/server/audit"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
	"github.com/qrfoundry/qrfoundry/internal/server/ratelimit"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/tokens"
)

// Longest token string accepted from the wire.
const rawTokenMax = 256

// Verdict is the pipeline's decision for one resolution attempt.
type Verdict struct {
	Result models.ScanResult

	// Destination is set on success (redirect target) and on the
	// display path (content shown inline instead of redirecting).
	Destination string

	// Display marks a destination outside the redirect allow-list:
	// the content is rendered as text, no use is consumed.
	Display bool
}

// Service runs the resolution pipeline.
type Service struct {
	tokens  tokens.Repository
	audits  *audit.Logger
	limiter *ratelimit.Limiter
	logger  logging.Logger
	now     func() time.Time
}

// NewService constructs a resolver service.
func NewService(repo tokens.Repository, audits *audit.Logger, limiter *ratelimit.Limiter, logger logging.Logger) *Service {
	return &Service{
		tokens:  repo,
		audits:  audits,
		limiter: limiter,
		logger:  logger,
		now:     time.Now,
	}
}

// Resolve validates raw against policy and, on success, atomically
// consumes one use. Every attempt writes exactly one scan record whose
// result matches the returned verdict. A non-nil error means the
// backing store failed, not that the token was rejected; rejections are
// verdicts, never errors.
//
// Check order: per-IP rate limit, lookup, per-token rate limit, login
// requirement, lifecycle, destination guard, domain allow-list, atomic
// consume. The IP cap runs before the lookup so an attacker probing
// token strings under load cannot use the resolver as an existence
// oracle.
func (s *Service) Resolve(ctx context.Context, raw string, req audit.Request, policy models.Policy) (Verdict, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > rawTokenMax {
		raw = raw[:rawTokenMax]
	}

	allowed, err := s.limiter.AllowIP(ctx, req.IP, policy.IPRatePerMin)
	if err != nil {
		return Verdict{}, err
	}
	if !allowed {
		return s.reject(ctx, nil, raw, req, models.ScanRateLimited), nil
	}

	if raw == "" {
		return s.reject(ctx, nil, raw, req, models.ScanInvalid), nil
	}

	token, err := s.tokens.GetByToken(ctx, raw)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return s.reject(ctx, nil, raw, req, models.ScanInvalid), nil
		}
		return Verdict{}, err
	}

	perMin := token.RateLimitPerMin
	if perMin == 0 {
		perMin = policy.DefaultTokenRatePerMin
	}
	allowed, err = s.limiter.AllowToken(ctx, token.ID, perMin)
	if err != nil {
		return Verdict{}, err
	}
	if !allowed {
		return s.reject(ctx, token, raw, req, models.ScanRateLimited), nil
	}

	if policy.RequireLogin && req.User == "" {
		// The caller authenticates and re-presents the token; nothing
		// is consumed here.
		return s.reject(ctx, token, raw, req, models.ScanLoginRequired), nil
	}

	if result, rejected := classify(token, s.now()); rejected {
		return s.reject(ctx, token, raw, req, result), nil
	}

	destination := strings.TrimSpace(token.Destination)
	if !isAbsoluteURL(destination) {
		// An Active token with no usable destination must never 200 a
		// scan into nowhere.
		s.logger.Error(ctx, "active token with empty or malformed destination",
			"token_id", token.ID, "token", common.MaskToken(raw))
		return s.reject(ctx, token, raw, req, models.ScanInvalid), nil
	}

	if !policy.AllowsURL(destination) {
		// Outside the redirect allow-list: show the content inline
		// without consuming a use.
		s.audits.Record(ctx, token.ID, raw, req, models.ScanForbidden, token.UseCount, "")
		return Verdict{Result: models.ScanForbidden, Destination: destination, Display: true}, nil
	}

	return s.consume(ctx, token, raw, req, destination)
}

// consume runs the atomic consume with a single re-evaluation on a lost
// race, as a conditional write may be rejected by a concurrent
// resolution that took the last use.
func (s *Service) consume(ctx context.Context, token *models.Token, raw string, req audit.Request, destination string) (Verdict, error) {
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.tokens.ConsumeUse(ctx, token.ID, s.now())
		if err != nil {
			return Verdict{}, err
		}
		if ok {
			useCount := token.UseCount + 1
			if fresh, err := s.tokens.GetByID(ctx, token.ID); err == nil {
				useCount = fresh.UseCount
			}
			s.audits.Record(ctx, token.ID, raw, req, models.ScanSuccess, useCount, destination)
			return Verdict{Result: models.ScanSuccess, Destination: destination}, nil
		}

		fresh, err := s.tokens.GetByID(ctx, token.ID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return s.reject(ctx, token, raw, req, models.ScanInvalid), nil
			}
			return Verdict{}, err
		}
		if result, rejected := classify(fresh, s.now()); rejected {
			return s.reject(ctx, fresh, raw, req, result), nil
		}
		// The fresh state still looks consumable; the predicate lost a
		// race it can win on retry. One more attempt, then give up.
		token = fresh
	}
	return s.reject(ctx, token, raw, req, models.ScanExhausted), nil
}

func (s *Service) reject(ctx context.Context, token *models.Token, raw string, req audit.Request, result models.ScanResult) Verdict {
	tokenID := ""
	useCount := 0
	if token != nil {
		tokenID = token.ID
		useCount = token.UseCount
	}
	s.audits.Record(ctx, tokenID, raw, req, result, useCount, "")
	return Verdict{Result: result}
}

// classify derives the lifecycle rejection for a token, preferring the
// live fields over a possibly stale stored status: an Active row past
// its expiry is Expired, one at its use cap is Exhausted.
func classify(token *models.Token, now time.Time) (models.ScanResult, bool) {
	switch token.Status {
	case models.TokenRevoked:
		return models.ScanRevoked, true
	case models.TokenExpired:
		return models.ScanExpired, true
	case models.TokenExhausted:
		return models.ScanExhausted, true
	}
	if token.ExpiresOn != nil && !now.Before(*token.ExpiresOn) {
		return models.ScanExpired, true
	}
	if token.MaxUses > 0 && token.UseCount >= token.MaxUses {
		return models.ScanExhausted, true
	}
	return "", false
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
