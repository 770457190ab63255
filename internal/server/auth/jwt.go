// Package auth issues and verifies the signed session tokens carried in the
// session cookie.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the user name of the session.
type Claims struct {
	jwt.RegisteredClaims
	UserName string `json:"user_name"`
}

func GenerateToken(userName string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserName: userName,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserNameFromToken validates the signature and expiry of tokenString.
// Every failure is reported as common.ErrInvalidToken.
func GetUserNameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserName == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserName, nil
}
