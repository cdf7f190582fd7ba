package api

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-portal/internal/service"
	"go.uber.org/zap"
)

// AdminHandler 后台页面
type AdminHandler struct {
	catalog service.CatalogService
	views   *renderer
	log     *zap.Logger
}

// NewAdminHandler 创建后台处理器
func NewAdminHandler(catalog service.CatalogService, views *renderer, log *zap.Logger) *AdminHandler {
	return &AdminHandler{catalog: catalog, views: views, log: log}
}

// Dashboard 全部游戏与分类
func (h *AdminHandler) Dashboard(c *gin.Context) {
	listing, err := h.catalog.List(c.Request.Context(), "", "")
	if err != nil {
		h.views.fail(c, h.log, err)
		return
	}

	h.views.html(c, http.StatusOK, "admin/dashboard", Page{
		Title:      "Administration",
		Games:      listing.Games,
		Categories: listing.Categories,
	})
}

// NewGame 新建表单
func (h *AdminHandler) NewGame(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.views.fail(c, h.log, err)
		return
	}
	h.views.html(c, http.StatusOK, "admin/new", Page{Title: "Nouveau jeu", Categories: categories})
}

// CreateGame 创建游戏
func (h *AdminHandler) CreateGame(c *gin.Context) {
	input, closeUpload := h.bindInput(c)
	defer closeUpload()

	if _, err := h.catalog.Create(c.Request.Context(), input); err != nil {
		h.views.fail(c, h.log, err)
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// EditGame 编辑表单
func (h *AdminHandler) EditGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.views.notFound(c)
		return
	}

	ctx := c.Request.Context()
	game, err := h.catalog.GetByID(ctx, id)
	if err != nil {
		h.views.fail(c, h.log, err)
		return
	}
	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		h.views.fail(c, h.log, err)
		return
	}

	h.views.html(c, http.StatusOK, "admin/edit", Page{
		Title:      game.Title,
		Game:       game,
		Categories: categories,
	})
}

// UpdateGame 更新游戏，slug、id、创建时间不变
func (h *AdminHandler) UpdateGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.views.notFound(c)
		return
	}

	input, closeUpload := h.bindInput(c)
	defer closeUpload()

	if _, err := h.catalog.Update(c.Request.Context(), id, input); err != nil {
		h.views.fail(c, h.log, err)
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// DeleteGame 删除游戏，不存在时同样重定向
func (h *AdminHandler) DeleteGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		h.views.fail(c, h.log, err)
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// bindInput 读取表单字段与可选的缩略图，返回的函数负责关闭上传文件
func (h *AdminHandler) bindInput(c *gin.Context) (service.GameInput, func()) {
	input := service.GameInput{
		Title:       c.PostForm("title"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Type:        c.PostForm("type"),
		URL:         c.PostForm("url"),
		Controls:    c.PostForm("controls"),
	}

	// 没有文件或不是 multipart 请求都视为未上传
	header, err := c.FormFile("thumbnail")
	if err != nil {
		return input, func() {}
	}
	file, err := header.Open()
	if err != nil {
		h.log.Warn("open upload failed", zap.String("filename", header.Filename), zap.Error(err))
		return input, func() {}
	}

	input.Thumbnail = &service.Upload{
		Filename:    header.Filename,
		ContentType: contentType(header),
		Reader:      file,
	}
	return input, func() { _ = file.Close() }
}

func contentType(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}
