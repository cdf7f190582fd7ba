package api

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/middleware"
	"github.com/wfunc/game-portal/internal/service"
	"github.com/wfunc/game-portal/internal/web"
	"go.uber.org/zap"
)

// Router HTTP路由器
type Router struct {
	engine         *gin.Engine
	cfg            *config.Config
	services       *service.Services
	pageHandler    *PageHandler
	adminHandler   *AdminHandler
	authHandler    *AuthHandler
	gameAPI        *GameAPIHandler
	authMiddleware *middleware.AuthMiddleware
	log            *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(cfg *config.Config, services *service.Services, log *zap.Logger) (*Router, error) {
	engine := gin.New()

	// 全局中间件
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestLogger())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tmpl)
	if cfg.Uploads.MaxMemory > 0 {
		engine.MaxMultipartMemory = cfg.Uploads.MaxMemory
	}

	authz, err := middleware.NewAuthorizer(middleware.DefaultPolicies)
	if err != nil {
		return nil, err
	}
	authMiddleware := middleware.NewAuthMiddleware(services.Auth, authz, cfg.Session.CookieName)
	engine.Use(authMiddleware.LoadIdentity())

	views := newRenderer(cfg.Site.Title)
	router := &Router{
		engine:         engine,
		cfg:            cfg,
		services:       services,
		pageHandler:    NewPageHandler(services.Catalog, views, log),
		adminHandler:   NewAdminHandler(services.Catalog, views, log),
		authHandler:    NewAuthHandler(services.Auth, views, cfg.Session, log),
		gameAPI:        NewGameAPIHandler(services.Catalog),
		authMiddleware: authMiddleware,
		log:            log,
	}

	router.setupRoutes()
	return router, nil
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.healthCheck)

	// 公开页面
	r.engine.GET("/", r.pageHandler.Home)
	r.engine.GET("/game/:slug", r.pageHandler.Game)

	// 登录登出不经过权限检查
	r.engine.GET(middleware.LoginPath, r.authHandler.LoginForm)
	r.engine.POST(middleware.LoginPath, r.authHandler.Login)
	r.engine.POST("/admin/logout", r.authHandler.Logout)

	admin := r.engine.Group("/admin")
	admin.Use(r.authMiddleware.RequireAdmin())
	{
		admin.GET("", r.adminHandler.Dashboard)
		admin.GET("/games/new", r.adminHandler.NewGame)
		admin.POST("/games", r.adminHandler.CreateGame)
		admin.GET("/games/:id/edit", r.adminHandler.EditGame)
		admin.POST("/games/:id", r.adminHandler.UpdateGame)
		admin.POST("/games/:id/delete", r.adminHandler.DeleteGame)
	}

	// 只读 JSON 接口
	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/games", r.gameAPI.List)
		v1.GET("/games/:slug", r.gameAPI.Get)
		v1.GET("/categories", r.gameAPI.Categories)
	}

	registerOpenAPIRoutes(r.engine)
	registerSwaggerRoutes(r.engine)

	// 其余路径：public 目录下的静态文件，否则 404 页面
	r.engine.NoRoute(r.serveStatic)
}

// serveStatic 只处理 GET/HEAD，路径先清理再拼接，不会跳出 public 目录
func (r *Router) serveStatic(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		name := path.Clean("/" + c.Request.URL.Path)
		full := filepath.Join(r.cfg.Site.PublicDir, filepath.FromSlash(name))
		if info, err := os.Stat(full); err == nil && info.Mode().IsRegular() {
			c.File(full)
			return
		}
	}
	r.pageHandler.NotFound(c)
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := r.services.Catalog.Ping(ctx); err != nil {
		r.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "目录存储不可用",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Handler 作为 http.Handler 使用
func (r *Router) Handler() http.Handler {
	return r.engine
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
