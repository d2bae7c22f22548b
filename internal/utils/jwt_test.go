package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "user_2abc", Claims{Email: "ana@example.ro", GivenName: "Ana"}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", claims.Subject)
	assert.Equal(t, "ana@example.ro", claims.Email)
	assert.Equal(t, "Ana", claims.GivenName)
}

func TestParseAccessTokenRejects(t *testing.T) {
	good, err := NewAccessToken("s3cret", "u1", Claims{}, time.Hour)
	require.NoError(t, err)
	_, err = ParseAccessToken("other", good.Token)
	assert.Error(t, err)

	expired, err := NewAccessToken("s3cret", "u1", Claims{}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken("s3cret", expired.Token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	noSub, err := NewAccessToken("s3cret", "", Claims{}, time.Hour)
	require.NoError(t, err)
	_, err = ParseAccessToken("s3cret", noSub.Token)
	assert.ErrorIs(t, err, ErrNoSubject)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseAccessToken("s3cret", raw)
	assert.Error(t, err)
}
