package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of an issued token: the registered claims plus
// the account's role, so a bearer request can be authorized without
// another account lookup.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

const tokenIssuer = "academic-records-api"

// IssueToken signs a short-lived HS256 token for the identity. The
// client presents it as "Authorization: Bearer <token>" instead of
// resending the password on every request.
func (s *Service) IssueToken(id Identity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: id.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("IssueToken: sign: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken verifies a bearer token and returns the identity it was
// issued to. Bad signatures, wrong algorithms and expired tokens all
// come back as ErrInvalidCredentials — the caller treats them exactly
// like a wrong password.
func (s *Service) ParseToken(tokenString string) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	return Identity{Username: claims.Subject, Role: claims.Role}, nil
}
