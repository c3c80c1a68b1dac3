// Package auth issues and validates resume tickets. A ticket binds a
// client id and display name so a dropped connection can reclaim its seat
// without any account system behind it.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidTicket = errors.New("invalid or expired resume token")

// Claims holds the resume ticket payload.
type Claims struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// ResumeManager signs and validates resume tickets.
type ResumeManager struct {
	secret []byte
	ttl    time.Duration
}

// NewResumeManager creates a ResumeManager with the given secret. Tickets
// outlive any reasonable game, so a dropped player can come back late.
func NewResumeManager(secret string) *ResumeManager {
	return &ResumeManager{
		secret: []byte(secret),
		ttl:    6 * time.Hour,
	}
}

// Issue creates a ticket for the given client.
func (m *ResumeManager) Issue(clientID, name string) (string, error) {
	claims := &Claims{
		ClientID: clientID,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   clientID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and validates a ticket string, returning the claims.
func (m *ResumeManager) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidTicket
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidTicket
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidTicket
	}
	return claims, nil
}
