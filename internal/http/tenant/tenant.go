// Package tenant resolves the ledger owner of a request.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Default is used when neither a token nor a header names the tenant.
const Default = "local"

// Header carries the tenant when tokens are disabled.
const Header = "X-Tenant"

var (
	ErrMissingToken   = errors.New("missing bearer token")
	ErrMissingSubject = errors.New("token has no subject")
)

type ctxKey struct{}

func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, ctxKey{}, tenant)
}

// FromContext returns the tenant stored by Middleware, or Default.
func FromContext(ctx context.Context) string {
	if t, ok := ctx.Value(ctxKey{}).(string); ok && t != "" {
		return t
	}

	return Default
}

// Middleware stores the request's tenant in its context. With a secret, the
// tenant is the subject of an HS256 bearer token; without one it is read from
// the X-Tenant header.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t, err := resolve(r, secret)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}

func resolve(r *http.Request, secret string) (string, error) {
	if secret == "" {
		if t := strings.TrimSpace(r.Header.Get(Header)); t != "" {
			return t, nil
		}

		return Default, nil
	}

	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrMissingToken
	}

	token, err := jwt.Parse(strings.TrimSpace(raw), func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrMissingSubject
	}

	return sub, nil
}
