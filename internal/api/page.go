package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/middleware"
	"github.com/wfunc/game-portal/internal/models"
	"go.uber.org/zap"
)

// Page 模板数据
type Page struct {
	Site       string
	Title      string
	User       string
	Q          string
	Cat        string
	Games      []*models.Game
	Categories []string
	Game       *models.Game
	Autoplay   bool
	Error      string
	Next       string
}

// renderer 统一填充站点名与当前用户
type renderer struct {
	site string
}

func newRenderer(site string) *renderer {
	return &renderer{site: site}
}

func (v *renderer) page(c *gin.Context, p Page) Page {
	p.Site = v.site
	if identity, ok := middleware.GetIdentity(c); ok {
		p.User = identity.Subject
	}
	return p
}

func (v *renderer) html(c *gin.Context, status int, name string, p Page) {
	c.HTML(status, name, v.page(c, p))
}

func (v *renderer) notFound(c *gin.Context) {
	v.html(c, http.StatusNotFound, "404", Page{Title: "Introuvable"})
}

// fail 把服务层错误转换成页面响应：404 页面，400 纯文本，其余 500
func (v *renderer) fail(c *gin.Context, log *zap.Logger, err error) {
	status := errors.StatusOf(err)
	switch {
	case status == http.StatusNotFound:
		v.notFound(c)
	case errors.Is(err, errors.ErrDuplicateSlug):
		c.String(http.StatusBadRequest, "Titre déjà utilisé")
	case status == http.StatusBadRequest:
		c.String(http.StatusBadRequest, messageOf(err))
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.String(http.StatusInternalServerError, "Erreur serveur")
	}
}

func messageOf(err error) string {
	if appErr, ok := errors.As(err); ok {
		if appErr.Details != "" {
			return appErr.Details
		}
		return appErr.Message
	}
	return err.Error()
}
