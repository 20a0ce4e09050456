package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/ender-auth-be/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	principal *models.Principal
	err       error
	gotID     string
}

func (f *fakeResolver) ResolvePrincipal(ctx context.Context, userID string) (*models.Principal, error) {
	f.gotID = userID
	return f.principal, f.err
}

func plainErrorWriter(w http.ResponseWriter, status int, message string) {
	http.Error(w, message, status)
}

// protected runs a request through Middleware and reports whether the next
// handler ran and what principal it saw.
func protected(t *testing.T, issuer *TokenIssuer, resolver PrincipalResolver, header string) (*httptest.ResponseRecorder, bool, *models.Principal) {
	t.Helper()

	var (
		called bool
		seen   *models.Principal
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if p, ok := PrincipalFromContext(r.Context()); ok {
			seen = &p
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	Middleware(issuer, resolver, zerolog.Nop(), plainErrorWriter)(next).ServeHTTP(rec, req)
	return rec, called, seen
}

func TestMiddleware_AttachesPrincipal(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)
	tok, err := issuer.Issue("u1", "test@example.com")
	require.NoError(t, err)

	resolver := &fakeResolver{principal: &models.Principal{ID: "u1", Name: "Test User", Email: "test@example.com"}}
	rec, called, seen := protected(t, issuer, resolver, "Bearer "+tok)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, "u1", resolver.gotID)
	require.NotNil(t, seen)
	assert.Equal(t, models.Principal{ID: "u1", Name: "Test User", Email: "test@example.com"}, *seen)
}

func TestMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret", time.Hour)
	tok, _ := issuer.Issue("u1", "test@example.com")

	resolver := &fakeResolver{principal: &models.Principal{ID: "u1"}}
	rec, called, _ := protected(t, issuer, resolver, "bearer "+tok)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestMiddleware_RejectsMissingAndInvalidTokens(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret", time.Hour)
	other, _ := NewTokenIssuer("other", time.Hour)
	expired, _ := NewTokenIssuer("secret", -time.Minute)

	foreign, _ := other.Issue("u1", "a@b.io")
	stale, _ := expired.Issue("u1", "a@b.io")

	cases := map[string]string{
		"missing":      "",
		"no scheme":    "token-without-scheme",
		"basic":        "Basic dXNlcjpwYXNz",
		"garbage":      "Bearer not.a.jwt",
		"wrong secret": "Bearer " + foreign,
		"expired":      "Bearer " + stale,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resolver := &fakeResolver{principal: &models.Principal{ID: "u1"}}
			rec, called, _ := protected(t, issuer, resolver, header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
			assert.Empty(t, resolver.gotID, "resolver must not run for rejected tokens")
		})
	}
}

func TestMiddleware_UnknownUserPassesWithoutPrincipal(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret", time.Hour)
	tok, _ := issuer.Issue("gone", "gone@example.com")

	rec, called, seen := protected(t, issuer, &fakeResolver{}, "Bearer "+tok)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Nil(t, seen)
}

func TestMiddleware_ResolverFailure(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret", time.Hour)
	tok, _ := issuer.Issue("u1", "a@b.io")

	rec, called, _ := protected(t, issuer, &fakeResolver{err: errors.New("store down")}, "Bearer "+tok)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "store down")
	assert.False(t, called)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(req))

	req.Header.Set("Authorization", "Bearer  abc ")
	assert.Equal(t, "abc", BearerToken(req))
}
