// Package testkit holds the shared fixtures for handler tests: an in-memory
// sqlite database and a clerk-like RS256 token signer.
package testkit

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	helper "ilmhub_backend/internals/helpers"
)

// NewDB opens a private in-memory sqlite database and migrates models into it.
func NewDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}

// NewApp mirrors the production fiber config (sonic + JSON error handler).
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return helper.JsonError(c, code, err.Error())
		},
	})
}

// AsUser is a route middleware that fakes what the auth middleware stores.
func AsUser(userID string, isAdmin bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(helper.LocalUserID, userID)
		c.Locals(helper.LocalIsAdmin, isAdmin)
		return c.Next()
	}
}

/* ===================== HTTP helpers ===================== */

func Request(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			raw, err := sonic.Marshal(b)
			require.NoError(t, err)
			r = strings.NewReader(string(raw))
		}
	}
	req, err := http.NewRequest(method, path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

// Decode reads the response body into a generic map.
func Decode(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, sonic.Unmarshal(raw, &out), string(raw))
	}
	return out
}

// Data returns body["data"] as a map.
func Data(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	body := Decode(t, res)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", body)
	return data
}

/* ===================== tokens ===================== */

type Signer struct {
	key    *rsa.PrivateKey
	PEMPub string
}

func NewSigner(t *testing.T) *Signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pub := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return &Signer{key: key, PEMPub: string(pub)}
}

// Token signs a session token for sub, valid for ttl (negative for an expired one).
func (s *Signer) Token(t *testing.T, sub string, ttl time.Duration, metadata map[string]any) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": now.Unix(),
		"nbf": now.Add(-time.Minute).Unix(),
		"exp": now.Add(ttl).Unix(),
		"sid": "sess_" + sub,
	}
	if metadata != nil {
		claims["metadata"] = metadata
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	require.NoError(t, err)
	return tok
}
