package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const DefaultTokenTTL = 24 * time.Hour

// UserClaims is the identity snapshot embedded in a session token.
type UserClaims struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	IsAdmin     bool   `json:"is_admin"`
	IsTeamAdmin bool   `json:"is_team_admin"`
	TeamID      string `json:"team_id,omitempty"`
}

type TokenClaims struct {
	UserClaims
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens signed with a process-wide secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *Tokens) GenerateToken(user UserClaims) (string, error) {
	now := t.now()
	claims := TokenClaims{
		UserClaims: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// VerifyToken checks signature and expiry. Errors match ErrExpiredToken or ErrInvalidToken.
func (t *Tokens) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Wrap(ErrInvalidSigningMethod, token.Method.Alg())
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errors.Wrap(ErrExpiredToken, err.Error())
	case err != nil:
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
