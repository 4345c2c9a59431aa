package authz

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	obsmw "github.com/ArrobaLab/maipro/internal/observability/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

type BearerValidator struct {
	secret []byte
	issuer string
}

func NewBearerValidator(secret, issuer string) *BearerValidator {
	return &BearerValidator{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Validate parses and verifies a raw token string and returns the Principal
// it carries.
func (b *BearerValidator) Validate(tokStr string) (Principal, error) {
	token, err := jwt.Parse(tokStr, func(token *jwt.Token) (interface{}, error) {
		// Ensure HS* (HMAC) only
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", token.Method)
		}
		return b.secret, nil
	})
	if err != nil {
		return Principal{}, err
	}
	if !token.Valid {
		return Principal{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, fmt.Errorf("invalid token claims")
	}
	if iss, _ := claims["iss"].(string); iss != "" && iss != b.issuer {
		return Principal{}, fmt.Errorf("issuer mismatch: %q", iss)
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Principal{}, fmt.Errorf("missing or invalid subject")
	}
	role, _ := claims["role"].(string)
	return Principal{UserID: userID, Role: role}, nil
}

func (b *BearerValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := obsmw.RequestIDFromContext(r.Context())
		raw := r.Header.Get("Authorization")
		if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			slog.Warn("auth missing bearer", "request_id", reqID, "path", r.URL.Path)
			return
		}

		principal, err := b.Validate(strings.TrimSpace(raw[len("Bearer "):]))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			slog.Warn("auth invalid token", "error", err, "request_id", reqID)
			return
		}

		ctx := contextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Local context key so handler packages don't need a shared keys package.
type principalKey struct{}

func contextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
