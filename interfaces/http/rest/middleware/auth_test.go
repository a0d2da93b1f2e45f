package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func adminProbe(t *testing.T, cfg AdminAuthConfig, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	handler := AdminAuth(cfg, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodPost, "/ixp/admin/intents", nil)
	if authorization != "" {
		r.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func signToken(t *testing.T, secret, issuer string, expires time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{"exp": expires.Unix()}
	if issuer != "" {
		claims["iss"] = issuer
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminAuth_ValidToken(t *testing.T) {
	cfg := AdminAuthConfig{Secret: "test-secret", Issuer: "ixp-backend"}
	token := signToken(t, "test-secret", "ixp-backend", time.Now().Add(time.Hour))

	w := adminProbe(t, cfg, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuth_MissingHeader(t *testing.T) {
	cfg := AdminAuthConfig{Secret: "test-secret"}

	w := adminProbe(t, cfg, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_MalformedHeader(t *testing.T) {
	cfg := AdminAuthConfig{Secret: "test-secret"}

	w := adminProbe(t, cfg, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_WrongSecret(t *testing.T) {
	cfg := AdminAuthConfig{Secret: "test-secret"}
	token := signToken(t, "other-secret", "", time.Now().Add(time.Hour))

	w := adminProbe(t, cfg, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_ExpiredToken(t *testing.T) {
	cfg := AdminAuthConfig{Secret: "test-secret"}
	token := signToken(t, "test-secret", "", time.Now().Add(-time.Hour))

	w := adminProbe(t, cfg, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_WrongIssuer(t *testing.T) {
	cfg := AdminAuthConfig{Secret: "test-secret", Issuer: "ixp-backend"}
	token := signToken(t, "test-secret", "someone-else", time.Now().Add(time.Hour))

	w := adminProbe(t, cfg, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_NoSecretAnonymousAllowed(t *testing.T) {
	cfg := AdminAuthConfig{AllowAnonymous: true}

	w := adminProbe(t, cfg, "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuth_NoSecretAnonymousForbidden(t *testing.T) {
	cfg := AdminAuthConfig{}

	w := adminProbe(t, cfg, "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
