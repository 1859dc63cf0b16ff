package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"launch-booking/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) FindOrCreateUser(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func TestValidEmail(t *testing.T) {
	tests := map[string]bool{
		"a@b.com":             true,
		"first.last@host.org": true,
		"":                    false,
		"not-an-email":        false,
		"Name <a@b.com>":      false,
		"a@b.com extra":       false,
		"  a@b.com":           false,
		"<a@b.com>":           false,
	}
	for email, want := range tests {
		assert.Equal(t, want, ValidEmail(email), "ValidEmail(%q)", email)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token := Token("a@b.com")
	assert.Equal(t, "YUBiLmNvbQ==", token)

	email, ok := EmailFromToken(token)
	assert.True(t, ok)
	assert.Equal(t, "a@b.com", email)

	_, ok = EmailFromToken("%%%")
	assert.False(t, ok)

	_, ok = EmailFromToken(Token("nobody"))
	assert.False(t, ok, "Expected token without a valid email to be rejected")
}

func TestMiddleware(t *testing.T) {
	user := &models.User{ID: 7, Email: "a@b.com"}

	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		users := new(MockUsers)
		users.On("FindOrCreateUser", "a@b.com").Return(user, nil)
		seen = nil

		req := httptest.NewRequest("POST", "/graphql", nil)
		req.Header.Set("Authorization", Token("a@b.com"))
		rr := httptest.NewRecorder()
		Middleware(users)(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, user, seen)
		users.AssertExpectations(t)
	})

	t.Run("bearer prefix", func(t *testing.T) {
		users := new(MockUsers)
		users.On("FindOrCreateUser", "a@b.com").Return(user, nil)
		seen = nil

		req := httptest.NewRequest("POST", "/graphql", nil)
		req.Header.Set("Authorization", "Bearer "+Token("a@b.com"))
		rr := httptest.NewRecorder()
		Middleware(users)(next).ServeHTTP(rr, req)

		assert.Equal(t, user, seen)
	})

	t.Run("anonymous", func(t *testing.T) {
		users := new(MockUsers)
		seen = &models.User{}

		rr := httptest.NewRecorder()
		Middleware(users)(next).ServeHTTP(rr, httptest.NewRequest("POST", "/graphql", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, seen)
		users.AssertNotCalled(t, "FindOrCreateUser", mock.Anything)
	})

	t.Run("storage error", func(t *testing.T) {
		users := new(MockUsers)
		users.On("FindOrCreateUser", "a@b.com").Return(nil, errors.New("db down"))

		req := httptest.NewRequest("POST", "/graphql", nil)
		req.Header.Set("Authorization", Token("a@b.com"))
		rr := httptest.NewRecorder()
		Middleware(users)(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
