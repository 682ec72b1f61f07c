package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the verified contents of a session token.
type Claims struct {
	UserID uint
	Role   string
}

// Generator defines the interface for JWT token generation.
type Generator interface {
	// GenerateToken creates a signed JWT token for the given user.
	GenerateToken(userID uint, role string) (string, error)
}

// Verifier defines the interface for JWT token verification.
type Verifier interface {
	// VerifyToken parses and validates a signed token, returning its claims.
	VerifyToken(token string) (Claims, error)
}

// generator implements the Generator and Verifier interfaces.
type generator struct {
	secret     []byte
	expiration time.Duration
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// GenerateToken creates a signed JWT token embedding the user id and role.
func (g *generator) GenerateToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"exp":  time.Now().Add(g.expiration).Unix(),
		"iat":  time.Now().Unix(),
		"role": role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses a signed token and extracts its claims.
// Expired or otherwise invalid tokens return an error.
func (g *generator) VerifyToken(tokenStr string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("invalid token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("unexpected claims type")
	}

	var out Claims
	if sub, ok := mapClaims["sub"].(float64); ok { // JWT numbers are decoded as float64
		out.UserID = uint(sub)
	}
	if role, ok := mapClaims["role"].(string); ok {
		out.Role = role
	}
	if out.UserID == 0 {
		return Claims{}, fmt.Errorf("token missing subject")
	}

	return out, nil
}
