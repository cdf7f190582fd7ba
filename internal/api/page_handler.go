package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-portal/internal/service"
	"go.uber.org/zap"
)

// PageHandler 公开页面
type PageHandler struct {
	catalog service.CatalogService
	views   *renderer
	log     *zap.Logger
}

// NewPageHandler 创建公开页面处理器
func NewPageHandler(catalog service.CatalogService, views *renderer, log *zap.Logger) *PageHandler {
	return &PageHandler{catalog: catalog, views: views, log: log}
}

// Home 游戏列表，支持 q 与 cat 过滤
func (h *PageHandler) Home(c *gin.Context) {
	q := c.Query("q")
	cat := c.Query("cat")

	listing, err := h.catalog.List(c.Request.Context(), q, cat)
	if err != nil {
		h.views.fail(c, h.log, err)
		return
	}

	h.views.html(c, http.StatusOK, "home", Page{
		Q:          q,
		Cat:        cat,
		Games:      listing.Games,
		Categories: listing.Categories,
	})
}

// Game 游戏详情，autoplay=1 时直接嵌入
func (h *PageHandler) Game(c *gin.Context) {
	game, err := h.catalog.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.views.fail(c, h.log, err)
		return
	}

	h.views.html(c, http.StatusOK, "game", Page{
		Title:    game.Title,
		Game:     game,
		Autoplay: c.Query("autoplay") == "1",
	})
}

// NotFound 404 页面
func (h *PageHandler) NotFound(c *gin.Context) {
	h.views.notFound(c)
}
