package utils

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "utils-test-secret"

func init() {
	SetJWTSecret(testSecret)
}

func TestGenerateToken_RegisteredClaims(t *testing.T) {
	token, err := GenerateToken(42, "zhang.wei", "manager", 8)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "zhang.wei", claims.Username)
	assert.Equal(t, "manager", claims.Role)
	assert.Empty(t, claims.Upstream)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.Equal(t, strconv.FormatInt(42, 10), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestGenerateExchangeToken_CarriesCoreToken(t *testing.T) {
	token, err := GenerateExchangeToken(9, "li.na", "viewer", "core-token", 1)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "core-token", claims.Upstream)
	assert.Equal(t, "9", claims.Subject)
	assert.Equal(t, "viewer", claims.Role)
}

func TestParseToken_Malformed(t *testing.T) {
	for _, token := range []string{"", "core-api-issued-token", "a.b.c"} {
		_, err := ParseToken(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID:   1,
		Username: "admin",
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ParseToken(hs512)
	assert.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(none)
	assert.Error(t, err)
}

func TestParseToken_RejectsForeignIssuer(t *testing.T) {
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "core-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(1, "admin", "admin", -1)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSetJWTSecret_RotationInvalidatesTokens(t *testing.T) {
	t.Cleanup(func() { SetJWTSecret(testSecret) })

	SetJWTSecret("before-rotation")
	token, err := GenerateToken(3, "wang.fang", "user", 1)
	require.NoError(t, err)
	_, err = ParseToken(token)
	require.NoError(t, err)

	SetJWTSecret("after-rotation")
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}
