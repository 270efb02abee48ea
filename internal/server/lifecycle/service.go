// Package lifecycle manages resolver tokens: issuance with immutable
// destination capture, revocation and rotation.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/dbx"
	"github.com/qrfoundry/qrfoundry/internal/logging"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/repomanager"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/tokens"
)

// TargetResolver computes the actual destination a token freezes at
// issuance (not the resolver URL).
type TargetResolver interface {
	Direct(ctx context.Context, entry *models.Entry) (string, error)
}

// Service implements token lifecycle operations. The token repository
// is vended per call so Rotate can bind all of its writes to one
// transaction.
type Service struct {
	db      dbx.DBTX
	rm      repomanager.RepositoryManager
	targets TargetResolver
	policy  models.Policy
	logger  logging.Logger
	now     func() time.Time
}

// NewService constructs a lifecycle service. policy supplies issuance
// defaults (TTL, max uses).
func NewService(db dbx.DBTX, rm repomanager.RepositoryManager, targets TargetResolver, policy models.Policy, logger logging.Logger) *Service {
	return &Service{
		db:      db,
		rm:      rm,
		targets: targets,
		policy:  policy,
		logger:  logger,
		now:     time.Now,
	}
}

// Issue freezes the entry's direct target as the token destination and
// persists a new Active token. Token links are a URL-mode feature; any
// failure is wrapped in common.ErrIssuance so callers fail closed
// instead of degrading to a direct link.
func (s *Service) Issue(ctx context.Context, entry *models.Entry) (*models.Token, error) {
	return s.issue(ctx, s.rm.Tokens(s.db), entry)
}

func (s *Service) issue(ctx context.Context, repo tokens.Repository, entry *models.Entry) (*models.Token, error) {
	if entry.Mode != models.ModeURL {
		return nil, fmt.Errorf("%w: token link type is available only for URL mode", common.ErrIssuance)
	}

	destination, err := s.targets.Direct(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrIssuance, err)
	}

	return s.create(ctx, repo, entry, destination)
}

// EnsureActive returns the entry's latest Active token if it is still
// usable, issuing a replacement otherwise. A stored Active token past
// its expiry or at its use cap counts as absent here: handing it out
// would embed a link that can only resolve rejected. Repeated calls
// never issue redundant tokens while a usable one exists.
func (s *Service) EnsureActive(ctx context.Context, entry *models.Entry) (*models.Token, error) {
	repo := s.rm.Tokens(s.db)

	token, err := repo.LatestActive(ctx, entry.ID)
	if err == nil && token.Usable(s.now()) {
		return token, nil
	}
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrIssuance, err)
	}
	return s.issue(ctx, repo, entry)
}

// Revoke irreversibly deactivates a token. History is kept: the token
// remains resolvable-but-rejected.
func (s *Service) Revoke(ctx context.Context, tokenID string) error {
	if err := s.rm.Tokens(s.db).SetStatus(ctx, tokenID, models.TokenRevoked); err != nil {
		return err
	}
	s.logger.Info(ctx, "token revoked", "token_id", tokenID)
	return nil
}

// Rotate revokes every Active token of the entry and issues a
// replacement. Revoke and reissue run in one transaction, so no state
// is ever visible where the old tokens are dead and no replacement
// exists. The replacement keeps the destination of the previous Active
// token when one exists: rotation changes the bearer string, not the
// target.
func (s *Service) Rotate(ctx context.Context, entry *models.Entry) (*models.Token, error) {
	var replacement *models.Token

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Tokens(tx)

		destination := ""
		if old, err := repo.LatestActive(ctx, entry.ID); err == nil {
			destination = old.Destination
		}

		revoked, err := repo.RevokeAllActive(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrIssuance, err)
		}
		if revoked > 0 {
			s.logger.Info(ctx, "tokens revoked for rotation", "entry_id", entry.ID, "count", revoked)
		}

		if destination == "" {
			replacement, err = s.issue(ctx, repo, entry)
		} else {
			replacement, err = s.create(ctx, repo, entry, destination)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return replacement, nil
}

func (s *Service) create(ctx context.Context, repo tokens.Repository, entry *models.Entry, destination string) (*models.Token, error) {
	tokenString, err := common.MakeRandTokenString(common.TokenBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrIssuance, err)
	}

	token := &models.Token{
		EntryID:     entry.ID,
		Token:       tokenString,
		Destination: destination,
		Status:      models.TokenActive,
		MaxUses:     s.policy.DefaultMaxUses,
	}
	if s.policy.DefaultTokenTTL > 0 {
		expires := s.now().Add(s.policy.DefaultTokenTTL)
		token.ExpiresOn = &expires
	}

	token, err = repo.Create(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrIssuance, err)
	}

	s.logger.Info(ctx, "token issued",
		"entry_id", entry.ID, "token_id", token.ID, "token", common.MaskToken(token.Token))
	return token, nil
}
