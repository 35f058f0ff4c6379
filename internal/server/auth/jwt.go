// Package auth verifies the bearer tokens issued by the external
// identity provider. The token subject is the caller's identity
// token, matched against users.token_identifier.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wibisana/berkas/internal/common"
)

// Claims carries the registered claims; only Subject and ExpiresAt are
// used by this service.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for the given subject. Used by
// tests and local tooling; production tokens come from the identity
// provider.
func GenerateToken(subject string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseSubject validates the token signature and expiry and returns the
// subject. Any parse or validation failure maps to ErrInvalidToken.
func ParseSubject(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
