// Package targets computes the content string a logical entry encodes:
// a direct route, a record field value, or literal text. It is the
// single source of truth for that computation; callers never fall back
// from one mode to another.
package targets

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/records"
)

// Builder resolves entry configuration into content strings.
type Builder struct {
	records records.Repository
	baseURL string
}

// NewBuilder constructs a Builder. baseURL is the deployment base used
// to absolutize relative routes; a trailing slash is ignored.
func NewBuilder(repo records.Repository, baseURL string) *Builder {
	return &Builder{records: repo, baseURL: strings.TrimRight(baseURL, "/")}
}

// Direct computes the URL-mode target: an explicit custom route wins,
// then an explicit target URL, then a route derived from the (type, id,
// action) reference. The result is always absolute.
func (b *Builder) Direct(ctx context.Context, entry *models.Entry) (string, error) {
	if route := strings.TrimSpace(entry.CustomRoute); route != "" {
		return b.absolute(route), nil
	}
	if target := strings.TrimSpace(entry.TargetURL); target != "" {
		return b.absolute(target), nil
	}
	if entry.TargetType != "" && entry.TargetID != "" {
		return b.absolute(buildRoute(entry.TargetType, entry.TargetID, entry.TargetAction)), nil
	}
	return "", fmt.Errorf("%w: URL mode needs a target record or a custom URL", common.ErrConfiguration)
}

// Value reads the configured source field from the referenced record,
// verbatim. The result is arbitrary text, not validated as a URL.
func (b *Builder) Value(ctx context.Context, entry *models.Entry) (string, error) {
	if entry.SourceType == "" || entry.SourceID == "" || entry.SourceField == "" {
		return "", fmt.Errorf("%w: Value mode requires record type, id and field", common.ErrConfiguration)
	}
	value, err := b.records.GetField(ctx, entry.SourceType, entry.SourceID, entry.SourceField)
	if err != nil {
		return "", fmt.Errorf("reading source field: %w", err)
	}
	return value, nil
}

// Manual returns the literal configured text.
func (b *Builder) Manual(entry *models.Entry) (string, error) {
	content := strings.TrimSpace(entry.ManualContent)
	if content == "" {
		return "", fmt.Errorf("%w: Manual mode requires some content", common.ErrConfiguration)
	}
	return content, nil
}

// ResolverURL builds the public resolver URL a Token-link entry encodes.
func (b *Builder) ResolverURL(tokenString string) string {
	return b.baseURL + "/qr?token=" + url.QueryEscape(tokenString)
}

// absolute leaves http(s) URLs untouched and prefixes everything else
// with the base URL.
func (b *Builder) absolute(urlOrRoute string) string {
	s := strings.TrimSpace(urlOrRoute)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return b.baseURL + s
}

// buildRoute derives the record route for a (type, id, action)
// reference. Print actions get the standard format query; view and edit
// share the plain route.
func buildRoute(recordType, recordID, action string) string {
	base := fmt.Sprintf("/app/%s/%s",
		url.PathEscape(strings.ToLower(recordType)), url.PathEscape(recordID))
	if strings.ToLower(strings.TrimSpace(action)) == "print" {
		return base + "?format=Standard&no_letterhead=0"
	}
	return base
}
