package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-for-predictable-results"

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name     string
		claims   UserClaims
		duration time.Duration
	}{
		{
			name:     "success: regular member token",
			claims:   UserClaims{UserID: "u1", Username: "bob", TeamID: "t1"},
			duration: time.Hour,
		},
		{
			name:     "success: admin token",
			claims:   UserClaims{UserID: "u0", Username: "root", IsAdmin: true},
			duration: 30 * time.Minute,
		},
		{
			name:     "success: zero ttl falls back to a day",
			claims:   UserClaims{UserID: "u2", Username: "alice", IsTeamAdmin: true, TeamID: "t1"},
			duration: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := NewTokens(testSecretKey, tt.duration)

			tokenString, err := tokens.GenerateToken(tt.claims)
			require.NoError(t, err)
			require.NotEmpty(t, tokenString)

			claims, err := tokens.VerifyToken(tokenString)
			require.NoError(t, err)
			assert.Equal(t, tt.claims, claims.UserClaims)

			want := tt.duration
			if want == 0 {
				want = DefaultTokenTTL
			}
			assert.WithinDuration(t, time.Now().Add(want), claims.ExpiresAt.Time, time.Second*5)
		})
	}
}

func TestVerifyToken(t *testing.T) {
	tokens := NewTokens(testSecretKey, DefaultTokenTTL)

	validToken, err := tokens.GenerateToken(UserClaims{UserID: "u1", Username: "bob"})
	require.NoError(t, err)

	stale := NewTokens(testSecretKey, DefaultTokenTTL)
	stale.now = func() time.Time { return time.Now().Add(-DefaultTokenTTL - time.Minute) }
	expiredToken, err := stale.GenerateToken(UserClaims{UserID: "u1", Username: "bob"})
	require.NoError(t, err)

	otherSecret, err := NewTokens("different-secret-key", DefaultTokenTTL).GenerateToken(UserClaims{UserID: "u1"})
	require.NoError(t, err)

	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{
		UserClaims: UserClaims{UserID: "u1"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	noneTokenString, err := noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := tokens.GenerateToken(UserClaims{Username: "ghost"})
	require.NoError(t, err)

	tests := []struct {
		name              string
		tokenString       string
		expectedErrorType error
	}{
		{
			name:        "success: verify valid token",
			tokenString: validToken,
		},
		{
			name:              "failure: token older than its ttl",
			tokenString:       expiredToken,
			expectedErrorType: ErrExpiredToken,
		},
		{
			name:              "failure: token signed with another secret",
			tokenString:       otherSecret,
			expectedErrorType: ErrInvalidToken,
		},
		{
			name:              "failure: malformed token",
			tokenString:       "not-a-valid-jwt-token",
			expectedErrorType: ErrInvalidToken,
		},
		{
			name:              "failure: unsigned token",
			tokenString:       noneTokenString,
			expectedErrorType: ErrInvalidToken,
		},
		{
			name:              "failure: token without user id",
			tokenString:       noSubject,
			expectedErrorType: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tokens.VerifyToken(tt.tokenString)

			if tt.expectedErrorType != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErrorType)
				assert.Nil(t, claims)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u1", claims.UserID)
		})
	}
}

func TestVerifyToken_ExpiresExactlyAfterTTL(t *testing.T) {
	issued := time.Now()
	tokens := NewTokens(testSecretKey, DefaultTokenTTL)
	tokens.now = func() time.Time { return issued }

	tokenString, err := tokens.GenerateToken(UserClaims{UserID: "u1"})
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(DefaultTokenTTL - time.Minute) }
	_, err = tokens.VerifyToken(tokenString)
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(DefaultTokenTTL + time.Second) }
	_, err = tokens.VerifyToken(tokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
