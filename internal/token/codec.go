package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Class selects the lifetime of an issued token. The class is not encoded
// in the token itself; an access token and a refresh token differ only in
// their expiry.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
)

var (
	// ErrInvalidToken covers malformed tokens and signature mismatches,
	// including tokens signed with a different secret.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken means the signature verified but the token is past
	// its expiry.
	ErrExpiredToken = errors.New("token expired")
)

// Codec signs and verifies compact HS256 tokens binding a user ID to a
// time window. It is a pure function of (token, secret, clock): no
// persistence, no user lookup.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Encode issues a signed token for the user with exp, iat and sub claims.
func (c *Codec) Encode(userID int64, class Class) (string, error) {
	lifetime := c.accessTTL
	if class == ClassRefresh {
		lifetime = c.refreshTTL
	}

	now := c.now()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
		Subject:   strconv.FormatInt(userID, 10),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token and returns the subject user ID. Expiry is
// reported as ErrExpiredToken; every other failure, tampering and
// wrong-secret signatures included, is ErrInvalidToken.
func (c *Codec) Decode(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		// A bad signature can arrive joined with a claims failure; report
		// it as invalid so a wrong-secret token is never seen as expired.
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return 0, ErrInvalidToken
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}
	if !parsed.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
