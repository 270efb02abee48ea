package targets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrfoundry/qrfoundry/internal/common"
	"github.com/qrfoundry/qrfoundry/internal/server/models"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/records"
)

const base = "https://qr.example.com"

func newBuilder() (*Builder, *records.MemoryRepository) {
	repo := records.NewMemoryRepository()
	return NewBuilder(repo, base+"/"), repo
}

func TestDirect_CustomRouteWins(t *testing.T) {
	b, _ := newBuilder()
	entry := &models.Entry{
		Mode:        models.ModeURL,
		CustomRoute: "/custom/path",
		TargetURL:   "https://other.example.com/x",
		TargetType:  "Item",
		TargetID:    "ITM-001",
	}
	got, err := b.Direct(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, base+"/custom/path", got)
}

func TestDirect_TargetURLStaysAbsolute(t *testing.T) {
	b, _ := newBuilder()
	entry := &models.Entry{Mode: models.ModeURL, TargetURL: "https://other.example.com/x"}
	got, err := b.Direct(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com/x", got)
}

func TestDirect_DerivedRoute(t *testing.T) {
	b, _ := newBuilder()

	tests := []struct {
		name   string
		action string
		want   string
	}{
		{"view", "view", base + "/app/sales%20invoice/INV-0042"},
		{"edit shares view route", "edit", base + "/app/sales%20invoice/INV-0042"},
		{"print appends format", "print", base + "/app/sales%20invoice/INV-0042?format=Standard&no_letterhead=0"},
		{"empty action defaults to view", "", base + "/app/sales%20invoice/INV-0042"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &models.Entry{
				Mode:         models.ModeURL,
				TargetType:   "Sales Invoice",
				TargetID:     "INV-0042",
				TargetAction: tt.action,
			}
			got, err := b.Direct(context.Background(), entry)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirect_MissingTargetIsConfigurationError(t *testing.T) {
	b, _ := newBuilder()
	_, err := b.Direct(context.Background(), &models.Entry{Mode: models.ModeURL})
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestValue_ReadsFieldVerbatim(t *testing.T) {
	b, repo := newBuilder()
	repo.Put("Asset", "AST-7", map[string]string{"serial_no": "SN 123/X?&"})

	entry := &models.Entry{
		Mode:        models.ModeValue,
		SourceType:  "Asset",
		SourceID:    "AST-7",
		SourceField: "serial_no",
	}
	got, err := b.Value(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, "SN 123/X?&", got)
}

func TestValue_MissingFieldsIsConfigurationError(t *testing.T) {
	b, _ := newBuilder()
	_, err := b.Value(context.Background(), &models.Entry{Mode: models.ModeValue, SourceType: "Asset"})
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestValue_MissingRecord(t *testing.T) {
	b, _ := newBuilder()
	entry := &models.Entry{
		Mode:        models.ModeValue,
		SourceType:  "Asset",
		SourceID:    "missing",
		SourceField: "serial_no",
	}
	_, err := b.Value(context.Background(), entry)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestManual(t *testing.T) {
	b, _ := newBuilder()

	got, err := b.Manual(&models.Entry{Mode: models.ModeManual, ManualContent: "  hello world  "})
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	_, err = b.Manual(&models.Entry{Mode: models.ModeManual})
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestResolverURL_EscapesToken(t *testing.T) {
	b, _ := newBuilder()
	assert.Equal(t, base+"/qr?token=ab%2Fcd", b.ResolverURL("ab/cd"))
}
