package utils // package utils provides helpers for guest session tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that are malformed, expired,
// signed with another key or carry no subject.
var ErrInvalidToken = errors.New("invalid session token")

// SessionToken is a signed HS256 JWT naming a guest session, along with
// its expiry.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken signs a token whose subject is sessionID.  The token
// carries the standard exp and iat claims.
func NewSessionToken(secret, sessionID string, ttl time.Duration, now time.Time) (SessionToken, error) {
	exp := now.UTC().Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now.UTC()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates raw and returns the session id it names.
// Only HMAC signatures are accepted.
func ParseSessionToken(secret, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
