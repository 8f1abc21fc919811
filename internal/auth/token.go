package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and verifies compact expiring tokens with a process-wide secret.
// The secret is read-only after startup.
type Codec struct {
	secret []byte
}

// NewCodec constructs a Codec from the configured signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode produces a URL-safe, tamper-evident token embedding the payload and
// an expiration instant. Identical payload, expiry and secret always yield the
// same token.
func (c *Codec) Encode(payload map[string]any, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{}
	for key, value := range payload {
		claims[key] = value
	}
	claims["exp"] = expiresAt.Unix()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and expiry and returns the embedded payload.
// Malformed, tampered and expired tokens all yield nil; they are normal
// outcomes, not errors.
func (c *Codec) Decode(token string) map[string]any {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return map[string]any(claims)
}
