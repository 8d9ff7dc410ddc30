package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxbiz/biz-optimizer/internal/auth"
	"github.com/luxbiz/biz-optimizer/internal/auth/domain"
)

type memUsers struct {
	byUID map[string]*domain.User
	next  int64
}

func (m *memUsers) EnsureUser(_ context.Context, id domain.Identity) (*domain.User, error) {
	if u, ok := m.byUID[id.UID]; ok {
		u.Email = id.Email
		return u, nil
	}
	m.next++
	u := &domain.User{ID: m.next, ExternalID: id.UID, Email: id.Email, Role: domain.RoleUser, Tier: domain.TierFree}
	m.byUID[id.UID] = u
	return u, nil
}

func setupRouter(users *memUsers, v auth.Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireUser(v, users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": auth.UserID(c)})
	})
	r.GET("/admin", RequireUser(v, users), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireUser(t *testing.T) {
	v := auth.NewHMACVerifier("s3cret")
	users := &memUsers{byUID: map[string]*domain.User{}}
	r := setupRouter(users, v)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("first sign-in creates the user", func(t *testing.T) {
		token, err := v.Issue(domain.Identity{UID: "ext-1", Email: "a@b.c"}, time.Hour)
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			var body map[string]int64
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, int64(1), body["id"])
		}
		assert.Len(t, users.byUID, 1)
	})
}

func TestRequireAdmin(t *testing.T) {
	v := auth.NewHMACVerifier("s3cret")
	users := &memUsers{byUID: map[string]*domain.User{}}
	r := setupRouter(users, v)

	token, err := v.Issue(domain.Identity{UID: "ext-2"}, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	users.byUID["ext-2"].Role = domain.RoleAdmin
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
