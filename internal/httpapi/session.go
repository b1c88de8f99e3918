package httpapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminSessionCookie = "admin_session"

var errInvalidSession = errors.New("invalid admin session")

// sessionManager signs and verifies short-lived admin session tokens.
type sessionManager struct {
	secret []byte
	ttl    time.Duration
}

func newSessionManager(secret string, ttl time.Duration) *sessionManager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &sessionManager{secret: []byte(secret), ttl: ttl}
}

func (s *sessionManager) issue(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *sessionManager) verify(tokenString string) error {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errInvalidSession
			}
			return s.secret, nil
		},
	)
	if err != nil {
		return errInvalidSession
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject != "admin" {
		return errInvalidSession
	}
	return nil
}
