package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	s := NewService("secret", time.Hour)

	hash, err := s.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, s.CheckPassword("hunter22", hash))
	assert.False(t, s.CheckPassword("wrong", hash))
}

func TestGenerateAndValidateToken(t *testing.T) {
	s := NewService("secret", time.Hour)

	token, err := s.GenerateToken("ops@fleet.io", "Dispatcher")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@fleet.io", claims.Subject)
	assert.Equal(t, "Dispatcher", claims.Role)

	claims, err = s.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "ops@fleet.io", claims.Subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewService("one", time.Hour).GenerateToken("a@b.c", "Manager")
	require.NoError(t, err)

	_, err = NewService("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	s := NewService("secret", time.Hour)
	claims := Claims{
		Role: "Manager",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@b.c",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := NewService("secret", time.Hour).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer "} {
		_, err := ExtractTokenFromHeader(header)
		assert.ErrorIs(t, err, ErrInvalidToken, header)
	}
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		assert.Len(t, otp, 6)
		assert.NotEqual(t, byte('0'), otp[0])
	}
}
