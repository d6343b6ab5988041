package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrMissingToken    = errors.New("missing authorization token")
	ErrMissingIdentity = errors.New("identity is required")
)

// Claims holds the JWT payload. Identity is the opaque address a player acts
// as; the engine never interprets it.
type Claims struct {
	Identity string `json:"identity"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates identity tokens.
type JWTManager struct {
	secret []byte
	expiry time.Duration
}

// NewJWTManager creates a JWTManager. A zero expiry defaults to a day.
func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &JWTManager{secret: []byte(secret), expiry: expiry}
}

// Issue signs a token for identity.
func (m *JWTManager) Issue(identity, name string) (string, error) {
	if identity == "" {
		return "", ErrMissingIdentity
	}
	now := time.Now()
	claims := &Claims{
		Identity: identity,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   identity,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT string, returning the claims.
func (m *JWTManager) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Identity == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Token is the response body of a token issuance.
type Token struct {
	AccessToken string `json:"access_token"`
	Identity    string `json:"identity"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// IssueToken wraps Issue with the metadata clients need.
func (m *JWTManager) IssueToken(identity, name string) (*Token, error) {
	access, err := m.Issue(identity, name)
	if err != nil {
		return nil, err
	}
	return &Token{
		AccessToken: access,
		Identity:    identity,
		ExpiresIn:   int(m.expiry.Seconds()),
	}, nil
}
