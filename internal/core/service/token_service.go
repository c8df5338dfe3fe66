package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cointrail/tracker-api/internal/core/domain"
)

// TokenService signs and verifies bearer tokens carrying a subject id.
// The signing secret is injected at construction and never changes for
// the process lifetime; rotating it invalidates every issued token.
// There is no revocation store and no expiry: validity is signature
// correctness only.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret}
}

// Issue produces a signed HS256 token whose sub claim is subject.
func (s *TokenService) Issue(subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: subject,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and format. Malformed or mis-signed tokens
// resolve to (false, "", err); verification failures are never
// surfaced as panics or propagated past this boundary. The method only
// reads the immutable secret, so it is safe for unbounded concurrent
// use.
func (s *TokenService) Verify(tokenString string) (bool, string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return false, "", err
	}
	if !token.Valid || claims.Subject == "" {
		return false, "", domain.ErrInvalidToken
	}
	return true, claims.Subject, nil
}
