// Package auth carries caller identity and role checks for the admin
// surface. Identity arrives in an HS256 JWT; role storage is external.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/qrfoundry/qrfoundry/internal/common"
)

// Claims includes the registered claims plus the caller's user ID and
// role set.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"uid"`
	Roles  []string `json:"roles"`
}

// GenerateToken signs an identity token for userID with the given roles.
func GenerateToken(userID string, roles []string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Roles:  roles,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the signature and expiry and returns the caller
// identity.
func ParseToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrorUnauthorized
	}

	return &Identity{UserID: claims.UserID, Roles: claims.Roles}, nil
}
