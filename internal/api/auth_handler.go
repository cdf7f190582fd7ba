package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/service"
	"go.uber.org/zap"
)

const defaultNext = "/admin"

// AuthHandler 登录与登出
type AuthHandler struct {
	authService service.AuthService
	views       *renderer
	cookie      config.SessionConfig
	log         *zap.Logger
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService service.AuthService, views *renderer, cookie config.SessionConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		views:       views,
		cookie:      cookie,
		log:         log,
	}
}

// LoginForm 登录页，next 默认 /admin
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.views.html(c, http.StatusOK, "admin/login", Page{
		Title: "Connexion",
		Next:  safeNext(c.Query("next")),
	})
}

// Login 校验凭据，成功后写入会话 Cookie 并跳转到 next
func (h *AuthHandler) Login(c *gin.Context) {
	next := safeNext(c.PostForm("next"))

	sess, err := h.authService.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		if errors.Is(err, errors.ErrAuthentication) {
			h.views.html(c, http.StatusUnauthorized, "admin/login", Page{
				Title: "Connexion",
				Error: "Identifiants invalides",
				Next:  next,
			})
			return
		}
		h.views.fail(c, h.log, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, sess.Token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, next)
}

// Logout 销毁会话并清除 Cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(h.cookie.CookieName)
	if err != nil || token == "" {
		token = bearerToken(c)
	}
	if token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.log.Warn("logout failed", zap.Error(err))
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/")
}

// safeNext 只接受站内路径
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultNext
	}
	return next
}

func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
