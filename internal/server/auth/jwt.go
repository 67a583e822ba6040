// Package auth mints and verifies signed access tokens carrying user and
// tenant identity. Tokens are HS256 JWTs; the signature covers user id,
// tenant id, issued-at and expiry, so tampering with any field invalidates
// the token.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tenauth/tenauth/internal/common"
)

// Claims are the verified contents of an access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	TenantID string `json:"tid"`
}

// Issuer issues and verifies access tokens with a fixed lifetime. The
// validity window is set at issuance; there is no revocation, a token stays
// valid until its expiry regardless of later account state changes.
type Issuer struct {
	secretKey []byte
	lifetime  time.Duration
	now       func() time.Time
}

func NewIssuer(secretKey []byte, lifetime time.Duration) *Issuer {
	return &Issuer{secretKey: secretKey, lifetime: lifetime, now: time.Now}
}

// Issue mints a token for the given user within the given tenant scope.
func (i *Issuer) Issue(userID, tenantKey string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
		UserID:   userID,
		TenantID: tenantKey,
	})

	signed, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses and validates a token string. It returns
// common.ErrTokenExpired past the validity boundary and
// common.ErrTokenInvalid on signature mismatch or malformed structure.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return i.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}

	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}

	return claims, nil
}
