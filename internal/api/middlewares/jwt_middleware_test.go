package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"coopfarm/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var gotMemberID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMemberID, _ = utils.MemberIDFromRequest(r)
		gotRole, _ = utils.RoleFromRequest(r)
		w.WriteHeader(http.StatusOK)
	})

	handler := JWTMiddleware(next)

	t.Run("missing token is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/members", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		token, err := utils.SignRefreshToken("member-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token passes claims into the context", func(t *testing.T) {
		token, err := utils.SignToken("member-1", "awa@coop.sn", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "member-1", gotMemberID)
		assert.Equal(t, "admin", gotRole)
	})
}

func TestMiddlewaresExcludePaths(t *testing.T) {
	called := false
	blocker := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	handler := MiddlewaresExcludePaths(blocker, "/api/auth/login")(next)

	t.Run("excluded path skips the middleware", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})

	t.Run("other paths go through the middleware", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/members", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("matching is exact not prefix", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/login/extra", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
