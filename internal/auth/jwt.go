// Package auth issues and checks the HS256 bearer tokens the CLI presents to
// the AI server. Both sides share the secret key; there are no user accounts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the calling client's id.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string
}

// tokenIDSize is the number of random bytes behind a token's jti.
const tokenIDSize = 16

func GenerateToken(clientID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	id, err := common.MakeRandHexString(tokenIDSize)
	if err != nil {
		return "", err
	}

	issued := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(validityDuration)),
		},
		ClientID: clientID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetClientIDFromToken validates tokenString and returns its client id.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// validation yields common.ErrInvalidToken.
func GetClientIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.ClientID, nil
}
