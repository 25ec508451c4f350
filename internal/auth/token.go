package auth

import (
	"fmt"
	"time"

	"tenanthub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints and parses the signed access tokens handed out at
// login. Claims carry only the account id and username; there is no
// refresh or revocation.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs an HS256 access token for the identity.
func (t *TokenIssuer) Issue(id *Identity) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  id.ID,
		"username": id.Username,
		"exp":      time.Now().Add(t.ttl).Unix(),
		"iat":      time.Now().Unix(),
	})
	return token.SignedString(t.secret)
}

// Parse validates a token string and returns the account id it was
// issued for.
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", &domain.ErrUnauthorized{Message: "invalid token claims"}
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", &domain.ErrUnauthorized{Message: "invalid token claims"}
	}
	return userID, nil
}
