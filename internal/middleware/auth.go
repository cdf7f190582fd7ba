package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-portal/internal/service"
	"github.com/wfunc/game-portal/internal/session"
)

const (
	// ContextKeyIdentity 请求上下文中的身份
	ContextKeyIdentity = "identity"
	// ContextKeyToken 请求上下文中的会话令牌
	ContextKeyToken = "token"

	// LoginPath 登录页
	LoginPath = "/admin/login"
)

// AuthMiddleware 会话认证中间件
type AuthMiddleware struct {
	authService service.AuthService
	authz       *Authorizer
	cookieName  string
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(authService service.AuthService, authz *Authorizer, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		authz:       authz,
		cookieName:  cookieName,
	}
}

// LoadIdentity 有有效会话时把身份放入上下文，不拦截请求
func (m *AuthMiddleware) LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token != "" {
			if identity, err := m.authService.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(ContextKeyIdentity, *identity)
				c.Set(ContextKeyToken, token)
			}
		}
		c.Next()
	}
}

// RequireAdmin 未登录时重定向到登录页并带上原路径，已登录但无权限返回 403
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		if !m.authz.Can(identity, c.Request.Method, c.Request.URL.Path) {
			c.String(http.StatusForbidden, "Forbidden")
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoginRedirect 登录页地址，next 为登录后返回的路径
func LoginRedirect(next string) string {
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// GetIdentity 当前请求的身份
func GetIdentity(c *gin.Context) (session.Identity, bool) {
	v, ok := c.Get(ContextKeyIdentity)
	if !ok {
		return session.Identity{}, false
	}
	identity, ok := v.(session.Identity)
	return identity, ok && !identity.IsZero()
}

// GetToken 当前请求的会话令牌
func GetToken(c *gin.Context) string {
	return c.GetString(ContextKeyToken)
}

// extractToken 优先 Cookie，其次 Authorization: Bearer
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if token, err := c.Cookie(m.cookieName); err == nil && token != "" {
		return token
	}

	bearer := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(bearer, " "); ok && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
