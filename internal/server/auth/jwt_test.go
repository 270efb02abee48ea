package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	tok, err := GenerateToken("u1", []string{RoleQRManager}, testSecret, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, err := ParseToken(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.True(t, id.IsManager())
	assert.True(t, id.CanGenerate())
	assert.False(t, id.Anonymous())
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := GenerateToken("u1", nil, testSecret, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("other-secret"))
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	tok, err := GenerateToken("u1", nil, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tok, testSecret)
	assert.Error(t, err)
}

func TestRoles(t *testing.T) {
	tests := []struct {
		name        string
		id          *Identity
		manager     bool
		generator   bool
		quotaExempt bool
	}{
		{"nil identity", nil, false, false, false},
		{"anonymous", &Identity{}, false, false, false},
		{"plain user", &Identity{UserID: "u", Roles: []string{"Blogger"}}, false, false, false},
		{"qr user", &Identity{UserID: "u", Roles: []string{RoleQRUser}}, false, true, false},
		{"qr manager", &Identity{UserID: "u", Roles: []string{RoleQRManager}}, true, true, true},
		{"system manager", &Identity{UserID: "u", Roles: []string{RoleSystemManager}}, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.manager, tt.id.IsManager())
			assert.Equal(t, tt.generator, tt.id.CanGenerate())
			assert.Equal(t, tt.quotaExempt, tt.id.QuotaExempt())
		})
	}
}
