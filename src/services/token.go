package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenTTL is the lifetime of a bearer token and its session row
const SessionTokenTTL = 8 * time.Hour

// SessionClaims carries the token payload: the owning admin id plus the
// registered issued-at/expiry and a random jti nonce.
type SessionClaims struct {
	AdminID string `json:"admin_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session bearer tokens. Verification of a
// token's payload is only half of session validation; the session store
// lookup by token hash is the other half (see AuthService.Verify).
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenIssuer creates a token issuer with the given HMAC secret
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret cannot be empty")
	}
	if len(secret) < 32 {
		return nil, fmt.Errorf("token secret must be at least 32 characters long")
	}
	if ttl <= 0 {
		ttl = SessionTokenTTL
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "skidqi-admin-auth",
	}, nil
}

// TTL returns the configured token lifetime
func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}

// Issue creates a signed bearer token for an admin account
func (ti *TokenIssuer) Issue(adminID uuid.UUID) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		AdminID: adminID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
			Issuer:    ti.issuer,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Decode verifies a token's signature and expiry and returns its claims.
// A malformed, forged, or expired token yields ErrSessionInvalid.
func (ti *TokenIssuer) Decode(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrSessionInvalid
	}
	if _, err := uuid.Parse(claims.AdminID); err != nil {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}

// HashToken computes the digest under which a raw token is persisted.
// The raw token itself is never stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
