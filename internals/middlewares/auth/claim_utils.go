// internals/middlewares/auth/claim_utils.go
package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

/* ======== Extractors ======== */

// extractBearerToken reads Authorization: Bearer, falling back to clerk's __session cookie.
func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("__session"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", errNoToken
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - Empty token")
	}
	return tok, nil
}

var errNoToken = errors.New("unauthorized - No token provided")

/* ======== Clerk session claims ======== */

// SessionClaims is the subset of a clerk session token we use. metadata is
// only present when the clerk session template exposes public metadata.
type SessionClaims struct {
	jwt.RegisteredClaims
	AuthorizedParty string         `json:"azp,omitempty"`
	SessionID       string         `json:"sid,omitempty"`
	Email           string         `json:"email,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

func (c *SessionClaims) IsAdmin() bool {
	if c == nil || c.Metadata == nil {
		return false
	}
	switch v := c.Metadata["isAdmin"].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

// Verifier checks RS256 clerk session tokens against the instance PEM key.
type Verifier struct {
	key  *rsa.PublicKey
	skew time.Duration
	// AuthorizedParties, when set, must contain the azp claim.
	AuthorizedParties []string
}

func NewVerifier(pemKey string) (*Verifier, error) {
	pemKey = strings.TrimSpace(strings.ReplaceAll(pemKey, `\n`, "\n"))
	if pemKey == "" {
		return nil, errors.New("empty CLERK_JWT_KEY")
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("parse CLERK_JWT_KEY: %w", err)
	}
	return &Verifier{key: key, skew: 30 * time.Second}, nil
}

func (v *Verifier) Verify(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodRS256.Alg()}, SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.key, nil
	}); err != nil {
		return nil, fmt.Errorf("token parse error: %w", err)
	}

	now := time.Now()
	if claims.ExpiresAt == nil || now.After(claims.ExpiresAt.Time.Add(v.skew)) {
		return nil, errors.New("token expired")
	}
	if claims.NotBefore != nil && now.Add(v.skew).Before(claims.NotBefore.Time) {
		return nil, errors.New("token not yet valid")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("token has no subject")
	}
	if len(v.AuthorizedParties) > 0 && claims.AuthorizedParty != "" {
		ok := false
		for _, p := range v.AuthorizedParties {
			if p == claims.AuthorizedParty {
				ok = true
				break
			}
		}
		if !ok {
			return nil, errors.New("token azp not allowed")
		}
	}
	return claims, nil
}
