package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/service"
	"github.com/wfunc/game-portal/internal/session"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuth(t *testing.T) (service.AuthService, *AuthMiddleware) {
	t.Helper()
	sessions := session.NewManager(session.NewTokenManager("test-secret", time.Hour), session.NewMemoryStore())
	services, err := service.NewServices(&config.Config{
		Admin: config.AdminConfig{Username: "admin", Password: "pw"},
	}, nil, nil, sessions, zap.NewNop())
	require.NoError(t, err)

	authz, err := NewAuthorizer(DefaultPolicies)
	require.NoError(t, err)
	return services.Auth, NewAuthMiddleware(services.Auth, authz, "portal_session")
}

func newTestEngine(m *AuthMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), m.LoadIdentity())
	admin := r.Group("/admin", m.RequireAdmin())
	admin.GET("", func(c *gin.Context) {
		id, _ := GetIdentity(c)
		c.String(http.StatusOK, "hello "+id.Subject)
	})
	admin.GET("/games/new", func(c *gin.Context) { c.String(http.StatusOK, "form") })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestRequireAdmin_RedirectsAnonymous(t *testing.T) {
	_, m := newTestAuth(t)
	r := newTestEngine(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/games/new", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login?next=%2Fadmin%2Fgames%2Fnew", w.Header().Get("Location"))
}

func TestRequireAdmin_KeepsQueryInNext(t *testing.T) {
	_, m := newTestAuth(t)
	r := newTestEngine(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?x=1", nil))
	assert.Equal(t, "/admin/login?next=%2Fadmin%3Fx%3D1", w.Header().Get("Location"))
}

func TestRequireAdmin_CookieSession(t *testing.T) {
	auth, m := newTestAuth(t)
	r := newTestEngine(m)

	sess, err := auth.Login(context.Background(), "admin", "pw")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: sess.Token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello admin", w.Body.String())
}

func TestRequireAdmin_BearerSession(t *testing.T) {
	auth, m := newTestAuth(t)
	r := newTestEngine(m)

	sess, err := auth.Login(context.Background(), "admin", "pw")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/games/new", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_RevokedSession(t *testing.T) {
	auth, m := newTestAuth(t)
	r := newTestEngine(m)

	sess, err := auth.Login(context.Background(), "admin", "pw")
	require.NoError(t, err)
	require.NoError(t, auth.Logout(context.Background(), sess.Token))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: sess.Token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRecovery(t *testing.T) {
	_, m := newTestAuth(t)
	r := newTestEngine(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthorizer(t *testing.T) {
	authz, err := NewAuthorizer(DefaultPolicies)
	require.NoError(t, err)

	admin := session.Admin("admin")
	assert.True(t, authz.Can(admin, http.MethodGet, "/admin"))
	assert.True(t, authz.Can(admin, http.MethodPost, "/admin/games/12/delete"))
	assert.False(t, authz.Can(admin, http.MethodDelete, "/admin/games/12"))
	assert.False(t, authz.Can(admin, http.MethodGet, "/api/v1/games"))

	assert.False(t, authz.Can(session.Identity{}, http.MethodGet, "/admin"))
	assert.False(t, authz.Can(session.Identity{Subject: "guest", Role: "viewer"}, http.MethodGet, "/admin"))
}

func TestLoginRedirect(t *testing.T) {
	assert.Equal(t, "/admin/login?next=%2Fadmin", LoginRedirect("/admin"))
}
