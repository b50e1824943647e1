package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	jwtutil "blog-cms/backend/app/jwt"
	"blog-cms/backend/app/models"
	"blog-cms/backend/global"
)

// Guard either passes the request on, possibly with identity attached to
// its context, or answers it with a rejection.
type Guard func(http.Handler) http.Handler

// Chain wraps h so that guards run in the order given and stop at the
// first rejection.
func Chain(h http.Handler, guards ...Guard) http.Handler {
	for i := len(guards) - 1; i >= 0; i-- {
		h = guards[i](h)
	}
	return h
}

type Auth struct{ Signer *jwtutil.Signer }

// RequireAuth resolves the bearer token into claims. A missing token is
// unauthenticated (401); a token that fails verification is forbidden (403)
// with the same message whatever the reason.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "no token provided")
			return
		}
		claims, err := a.Signer.Parse(token)
		if err != nil {
			global.Logger.Debug().Err(err).Str("reason", rejectionReason(err)).Str("path", r.URL.Path).Msg("token rejected")
			writeMessage(w, http.StatusForbidden, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole admits callers whose role is any of roles. It is one
// predicate evaluated once, so "admin or author" is RequireRole(admin,
// author). It must run after RequireAuth.
func RequireRole(roles ...models.Role) Guard {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				writeMessage(w, http.StatusUnauthorized, "no token provided")
				return
			}
			for _, role := range roles {
				if models.Role(claims.Role) == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeMessage(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return Chain(next, a.RequireAuth, RequireRole(models.RoleAdmin))
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, jwtutil.ErrExpired):
		return "expired"
	case errors.Is(err, jwtutil.ErrSignatureInvalid):
		return "signature"
	default:
		return "malformed"
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
