package jwtverify

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	commonhttp "github.com/AlibekovAA/microblog/internal/common/http"
	"github.com/AlibekovAA/microblog/internal/common/logger"
)

// Claims identify the account a bearer token was issued to.
type Claims struct {
	AccountID string
	Handle    string
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

func Middleware(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := commonhttp.TraceIDFromContext(r.Context())

			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.Warnf("jwt auth failed path=%s: missing or invalid authorization header", r.URL.Path)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing or invalid authorization", nil, traceID)
				return
			}

			claims, err := ParseToken(strings.TrimPrefix(raw, "Bearer "), secretBytes)
			if err != nil {
				log.Warnf("jwt auth failed path=%s: %v", r.URL.Path, err)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", nil, traceID)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

// AccountKey charges a request to the authenticated account, or to the
// client address when the request carries no claims.
func AccountKey(r *http.Request) string {
	if claims, ok := FromContext(r.Context()); ok {
		return "account:" + claims.AccountID
	}
	return "ip:" + commonhttp.GetClientIP(r)
}

func ParseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidTokenSigningMethod
		}
		return secret, nil
	})
	if err != nil {
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, commonerrors.ErrInvalidTokenClaims
	}

	sub, _ := mapClaims["sub"].(string)
	handle, _ := mapClaims["usr"].(string)
	if sub == "" || handle == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}

	return Claims{
		AccountID: sub,
		Handle:    handle,
	}, nil
}
