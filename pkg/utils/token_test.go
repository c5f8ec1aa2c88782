package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignToken("member-1", "awa@coop.sn", "treasurer")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "member-1", claims["uid"])
	assert.Equal(t, "awa@coop.sn", claims["email"])
	assert.Equal(t, "treasurer", claims["role"])
	assert.NotContains(t, claims, "refresh")
}

func TestSignTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := SignToken("member-1", "awa@coop.sn", "member")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignRefreshToken("member-1")
	require.NoError(t, err)

	memberID, err := VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "member-1", memberID)
}

func TestVerifyRefreshTokenRejectsAccessToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignToken("member-1", "awa@coop.sn", "member")
	require.NoError(t, err)

	_, err = VerifyRefreshToken(token)
	assert.Error(t, err)
}
