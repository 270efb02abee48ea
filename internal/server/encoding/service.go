// Package encoding computes and persists the canonical content string a
// logical entry encodes. It is the single entry point deciding what a
// rendered code contains; there is no fallback between access modes.
package encoding

import (
	"context"
	"errors"
	"fmt"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/logging"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/entries"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/records"
	"github.com/qrfoundry/qrfoundry/internal/server/targets"
)

// TokenIssuer obtains-or-issues an Active token for an entry.
type TokenIssuer interface {
	EnsureActive(ctx context.Context, entry *models.Entry) (*models.Token, error)
}

// Service computes entry content and persists the derived field.
type Service struct {
	entries entries.Repository
	records records.Repository
	targets *targets.Builder
	issuer  TokenIssuer
	logger  logging.Logger
}

// NewService constructs an encoding service.
func NewService(repo entries.Repository, recordRepo records.Repository, builder *targets.Builder, issuer TokenIssuer, logger logging.Logger) *Service {
	return &Service{entries: repo, records: recordRepo, targets: builder, issuer: issuer, logger: logger}
}

// ComputeAndPersist resolves the entry's content from its current
// configuration, stores it on the entry and returns it.
//
// For URL entries with a Token link the content is the resolver URL of
// an ensured Active token; if issuance fails the call fails closed and
// never substitutes the direct route. Recomputation with unchanged
// inputs yields the same content and never issues a redundant token.
func (s *Service) ComputeAndPersist(ctx context.Context, entryID string) (string, error) {
	entry, err := s.entries.Get(ctx, entryID)
	if err != nil {
		return "", err
	}

	content, err := s.compute(ctx, entry)
	if err != nil {
		return "", err
	}

	if err := s.entries.UpdateComputedContent(ctx, entry.ID, content); err != nil {
		return "", fmt.Errorf("persisting computed content: %w", err)
	}

	s.logger.Info(ctx, "content computed", "entry_id", entry.ID, "mode", string(entry.Mode))
	return content, nil
}

// GenerateForRecord finds or creates the URL-mode entry bound to an
// application record and computes its content in one step. The record
// must exist. Repeated calls for the same record reuse the existing
// entry, so the operation is idempotent; linkType applies only when the
// entry is created (empty means a Direct link).
func (s *Service) GenerateForRecord(ctx context.Context, recordType, recordID string, linkType models.LinkType) (*models.Entry, error) {
	exists, err := s.records.Exists(ctx, recordType, recordID)
	if err != nil {
		return nil, fmt.Errorf("checking record: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: record %s/%s", common.ErrorNotFound, recordType, recordID)
	}

	entry, err := s.entries.FindByTarget(ctx, recordType, recordID)
	if errors.Is(err, common.ErrorNotFound) {
		if linkType == "" {
			linkType = models.LinkDirect
		}
		entry, err = s.entries.Create(ctx, &models.Entry{
			Mode:       models.ModeURL,
			LinkType:   linkType,
			TargetType: recordType,
			TargetID:   recordID,
		})
		if err == nil {
			s.logger.Info(ctx, "entry created for record",
				"entry_id", entry.ID, "record_type", recordType, "record_id", recordID)
		}
	}
	if err != nil {
		return nil, err
	}

	content, err := s.ComputeAndPersist(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	entry.ComputedContent = content
	return entry, nil
}

func (s *Service) compute(ctx context.Context, entry *models.Entry) (string, error) {
	switch entry.Mode {
	case models.ModeURL:
		if entry.LinkType == models.LinkToken {
			token, err := s.issuer.EnsureActive(ctx, entry)
			if err != nil {
				// Fail closed: a token entry must never degrade to a
				// direct link.
				return "", err
			}
			return s.targets.ResolverURL(token.Token), nil
		}
		return s.targets.Direct(ctx, entry)
	case models.ModeValue:
		return s.targets.Value(ctx, entry)
	case models.ModeManual:
		return s.targets.Manual(entry)
	default:
		return "", fmt.Errorf("%w: unsupported mode %q", common.ErrConfiguration, entry.Mode)
	}
}
