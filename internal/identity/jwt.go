package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verifier resolves bearer credentials to caller identity strings. The rest
// of the system treats the identity as opaque; only the access gate gives it
// meaning by looking up the stored user record.
type Verifier struct {
	signingKey []byte
	issuer     string
}

func NewVerifier(signingKey, issuer string) *Verifier {
	return &Verifier{signingKey: []byte(signingKey), issuer: issuer}
}

type claims struct {
	jwt.RegisteredClaims
}

// Verify parses and validates the token, returning the subject as the caller
// identity.
func (v *Verifier) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return c.Subject, nil
}

// Issue mints a token for callerID. The token exchange handler is the
// production caller; tests use it to forge authenticated requests.
func (v *Verifier) Issue(callerID string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   callerID,
			Issuer:    v.issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(v.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
