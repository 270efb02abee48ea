package audit

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrfoundry/qrfoundry/internal/logging"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/scans"
)

func newTestLogger() (*Logger, *scans.MemoryRepository) {
	repo := scans.NewMemoryRepository()
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	return NewLogger(repo, l), repo
}

func TestRecord_AppendsOnePerCall(t *testing.T) {
	l, repo := newTestLogger()
	ctx := context.Background()

	l.Record(ctx, "tid-1", "raw-token-string", Request{IP: "10.0.0.1", UserAgent: "curl"}, models.ScanSuccess, 1, "https://example.com/a?secret=1#frag")
	l.Record(ctx, "", "unknown-token", Request{IP: "10.0.0.2"}, models.ScanInvalid, 0, "")

	recs := repo.All()
	require.Len(t, recs, 2)

	assert.Equal(t, "tid-1", recs[0].TokenID)
	assert.Equal(t, models.ScanSuccess, recs[0].Result)
	assert.Equal(t, 1, recs[0].UseCountAtScan)
	assert.Equal(t, "https://example.com/a", recs[0].ResolvedURL, "query and fragment must be stripped")
	assert.NotEmpty(t, recs[0].Seq)

	assert.Empty(t, recs[1].TokenID)
	assert.Equal(t, HashToken("unknown-token"), recs[1].TokenHash)
	assert.Equal(t, models.ScanInvalid, recs[1].Result)
}

func TestRecord_TruncatesUserAgent(t *testing.T) {
	l, repo := newTestLogger()
	l.Record(context.Background(), "t", "x", Request{UserAgent: strings.Repeat("a", 1000)}, models.ScanSuccess, 1, "")
	recs := repo.All()
	require.Len(t, recs, 1)
	assert.Len(t, recs[0].UserAgent, 500)
}

func TestHashToken(t *testing.T) {
	assert.Empty(t, HashToken(""))
	assert.Len(t, HashToken("abc"), 64)
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"not a url", ""},
		{"/relative/only", ""},
		{"https://h.example.com/p/q?x=1#y", "https://h.example.com/p/q"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeURL(tt.in), tt.in)
	}
}
