package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret-for-tokens")

	token, err := GenerateJWT("seller-123", "ama@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	require.Equal(t, "seller-123", claims.SellerID)
	require.Equal(t, "ama@example.com", claims.Email)
	require.Equal(t, "shopup-api", claims.Issuer)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("first-secret")
	token, err := GenerateJWT("seller-123", "ama@example.com")
	require.NoError(t, err)

	SetJWTSecret("second-secret")
	_, err = ValidateJWT(token)
	require.Error(t, err)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	SetJWTSecret("test-secret-for-tokens")
	_, err := ValidateJWT("not.a.token")
	require.Error(t, err)
}
