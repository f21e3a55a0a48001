package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// JWT token lifetime for seller sessions.
const jwtTTL = 24 * time.Hour

// SellerClaims are the JWT claims issued to authenticated sellers.
type SellerClaims struct {
	SellerID string `json:"sellerId"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// SetJWTSecret configures the signing secret. Must be called once at startup
// before any token is generated or validated.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// GenerateJWT creates a signed token carrying the seller identity.
func GenerateJWT(sellerID, email string) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("jwt secret not configured")
	}

	now := time.Now()
	claims := SellerClaims{
		SellerID: sellerID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "shopup-api",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateJWT parses and verifies a token, returning the seller claims.
func ValidateJWT(tokenString string) (*SellerClaims, error) {
	if len(jwtSecret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SellerClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SellerClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
