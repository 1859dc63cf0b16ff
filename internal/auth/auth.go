package auth

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"launch-booking/internal/models"
)

// UserFinder resolves an email address to a stored user, creating it if needed.
type UserFinder interface {
	FindOrCreateUser(ctx context.Context, email string) (*models.User, error)
}

type contextKey struct{}

// ValidEmail reports whether email is a bare address such as "a@b.com".
func ValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && addr.Name == ""
}

// Token returns the login token for email.
func Token(email string) string {
	return base64.StdEncoding.EncodeToString([]byte(email))
}

// EmailFromToken decodes a login token. ok is false unless it carries a valid email address.
func EmailFromToken(token string) (email string, ok bool) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return "", false
	}
	email = string(raw)
	if !ValidEmail(email) {
		return "", false
	}
	return email, true
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the authenticated user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(contextKey{}).(*models.User)
	return user
}

// Middleware authenticates requests from the Authorization header. Requests without a
// usable token proceed anonymously.
func Middleware(users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			header = strings.TrimPrefix(header, "Bearer ")

			email, ok := EmailFromToken(header)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindOrCreateUser(r.Context(), email)
			if err != nil {
				log.Printf("Error loading user for request: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
