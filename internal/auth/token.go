package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nickcheng/taskapp-backend/internal/apperr"
)

// TokenManager issues and verifies session tokens. Tokens carry no expiry:
// a token stays valid until it is removed from the user's stored token list,
// so revocation state lives in the credential store, not here.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (tm *TokenManager) Issue(userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps two logins in the same second from producing the
			// same token string; iat alone has second resolution.
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Verify checks the signature and returns the encoded user id. It does not
// check the user's stored token list; the auth gate does that.
func (tm *TokenManager) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || claims.UserID == "" {
		return "", apperr.Auth("invalid token")
	}
	return claims.UserID, nil
}
