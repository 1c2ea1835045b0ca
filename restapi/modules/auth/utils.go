// Package auth issues and validates the session tokens used by the
// protected utility endpoints.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/workmood/workmood-backend/database"
)

var jwtSecret = []byte(database.GetEnvDefault("JWT_SECRET", "workmood-dev-secret-change-this"))

// Claims represents JWT claims
type Claims struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a token for an authenticated principal
func GenerateJWT(subject, role string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour) // 24 hour expiry

	claims := &Claims{
		Subject: subject,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "workmood-backend",
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateJWT validates a token and returns the claims
func ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
