package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"ixp-backend/pkg/common"
)

// AdminAuthConfig configures JWT validation for the admin API.
type AdminAuthConfig struct {
	Secret string
	Issuer string
	// AllowAnonymous skips validation when no secret is configured.
	// Development only; production refuses to start without a secret.
	AllowAnonymous bool
}

// AdminAuth guards the registry mutation endpoints. Registration is an
// administrative operation; regular render and crawl traffic never passes
// through here.
func AdminAuth(cfg AdminAuthConfig, logger *zap.Logger) func(next http.Handler) http.Handler {
	if cfg.Secret == "" {
		if cfg.AllowAnonymous {
			logger.Warn("admin API running without authentication; set ADMIN_JWT_SECRET")
			return func(next http.Handler) http.Handler { return next }
		}
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				common.RespondError(w, http.StatusServiceUnavailable, "ADMIN_AUTH_UNCONFIGURED", "admin API authentication is not configured")
			})
		}
	}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
				return
			}

			options := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
			if cfg.Issuer != "" {
				options = append(options, jwt.WithIssuer(cfg.Issuer))
			}
			token, err := jwt.Parse(parts[1], keyFunc, options...)
			if err != nil || !token.Valid {
				logger.Info("admin token rejected", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
