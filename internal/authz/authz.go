// Package authz authenticates bearer tokens on incoming requests and gates
// administrative routes on the caller's role claims.
package authz

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"resa/internal/credential"
	"resa/pkg/requestcontext"
)

// Rejection messages written in the error_description field.
const (
	MsgMissingAuthorization = "Invalid authorization code."
	MsgInvalidScheme        = "Invalid authentication scheme."
	MsgInvalidToken         = "Invalid token or expired token."
	MsgAdminOnly            = "Only admin can access this"
)

// TokenDecoder yields claims for a valid token and nil otherwise.
type TokenDecoder interface {
	DecodeToken(ctx context.Context, token string) *credential.Claims
}

// IsPrivileged reports whether the claims grant administrative access.
func IsPrivileged(claims *credential.Claims) bool {
	return claims != nil && claims.IsStaff && claims.IsActive
}

type claimsKey struct{}

func WithClaims(ctx context.Context, claims *credential.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFrom returns the claims stored by RequireAuth, or nil.
func ClaimsFrom(ctx context.Context) *credential.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*credential.Claims)
	return claims
}

// bearerSchemes are the accepted words before the token.
var bearerSchemes = map[string]struct{}{"Bearer": {}, "jwt": {}}

// RequireAuth authenticates the Authorization header and stores the claims
// in the request context. Every failure is a 403.
func RequireAuth(decoder TokenDecoder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				reject(w, r, logger, "unauthorized", MsgMissingAuthorization)
				return
			}

			scheme, token, _ := strings.Cut(header, " ")
			if _, ok := bearerSchemes[scheme]; !ok {
				reject(w, r, logger, "unauthorized", MsgInvalidScheme)
				return
			}

			claims := decoder.DecodeToken(ctx, strings.TrimSpace(token))
			if claims == nil {
				reject(w, r, logger, "unauthorized", MsgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

// RequireAdmin must run after RequireAuth. It answers 403 before the handler
// runs, so unprivileged callers never learn whether a record exists.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			if claims == nil {
				reject(w, r, logger, "unauthorized", MsgInvalidToken)
				return
			}
			if !IsPrivileged(claims) {
				logger.WarnContext(r.Context(), "forbidden - admin required",
					"user_id", claims.UserID,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", MsgAdminOnly)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin chains RequireAuth and RequireAdmin.
func Admin(decoder TokenDecoder, logger *slog.Logger) func(http.Handler) http.Handler {
	auth := RequireAuth(decoder, logger)
	admin := RequireAdmin(logger)
	return func(next http.Handler) http.Handler {
		return auth(admin(next))
	}
}

func reject(w http.ResponseWriter, r *http.Request, logger *slog.Logger, code, desc string) {
	logger.WarnContext(r.Context(), "unauthenticated request",
		"reason", desc,
		"path", r.URL.Path,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	writeJSONError(w, http.StatusForbidden, code, desc)
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}
