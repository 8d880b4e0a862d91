package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("invalid token")
	ErrRevoked = errors.New("token revoked")
)

// Claims is the signed payload of both token variants. TokenType keeps
// an access token from being replayed as a refresh token and vice versa.
type Claims struct {
	TokenType string `json:"typ"`
	IsStaff   bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

func NewJTI() string { return uuid.NewString() }

func Sign(identity, typ string, isStaff bool, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: typ,
		IsStaff:   isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			ID:        NewJTI(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Parse verifies the signature, expiry and token type. The revocation
// check lives in the token service, which owns the blocklist store.
func Parse(raw, expectedType string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !tkn.Valid {
		return nil, ErrInvalid
	}
	if expectedType != "" && claims.TokenType != expectedType {
		return nil, ErrInvalid
	}
	return &claims, nil
}
