package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/service"
)

// GameAPIHandler 只读 JSON 接口
type GameAPIHandler struct {
	catalog service.CatalogService
}

// NewGameAPIHandler 创建 JSON 接口处理器
func NewGameAPIHandler(catalog service.CatalogService) *GameAPIHandler {
	return &GameAPIHandler{catalog: catalog}
}

// List 游戏列表
// @Summary 游戏列表
// @Tags Games
// @Produce json
// @Param q query string false "标题关键字"
// @Param cat query string false "分类"
// @Success 200 {object} service.Listing
// @Router /api/v1/games [get]
func (h *GameAPIHandler) List(c *gin.Context) {
	listing, err := h.catalog.List(c.Request.Context(), c.Query("q"), c.Query("cat"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Get 按 slug 查询
// @Summary 游戏详情
// @Tags Games
// @Produce json
// @Param slug path string true "slug"
// @Success 200 {object} models.Game
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/games/{slug} [get]
func (h *GameAPIHandler) Get(c *gin.Context) {
	game, err := h.catalog.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// Categories 分类列表
// @Summary 分类列表
// @Tags Games
// @Produce json
// @Success 200 {array} string
// @Router /api/v1/categories [get]
func (h *GameAPIHandler) Categories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func respondError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Wrap(err, errors.ErrUnknown)
	}
	// 调用栈只写日志，不返回给客户端
	public := *appErr
	public.Stack = nil
	c.JSON(appErr.HTTPStatus(), errors.NewErrorResponse(&public, c.GetHeader("X-Request-ID")))
}
