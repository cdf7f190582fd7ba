package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-portal/internal/api"
	"github.com/wfunc/game-portal/internal/catalog"
	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/logger"
	"github.com/wfunc/game-portal/internal/service"
	"github.com/wfunc/game-portal/internal/session"
	"github.com/wfunc/game-portal/internal/storage"
	"go.uber.org/zap"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Server 服务器实例
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	store      catalog.Store
	uploader   *storage.Uploader
	sessions   *session.Manager
	httpServer *http.Server

	// 关闭控制
	shutdownCh chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

func main() {
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	// 加载配置
	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()

	// 初始化日志系统
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	server := NewServer(cfg)

	if err := server.Start(); err != nil {
		logger.Fatal("服务器启动失败", zap.Error(err))
	}

	server.WaitForShutdown()

	if err := server.Shutdown(); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("服务器已安全关闭")
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:        cfg,
		logger:     logger.GetLogger(),
		shutdownCh: make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("正在启动游戏目录站点...",
		zap.String("version", Version),
		zap.String("mode", s.cfg.Server.Mode),
	)
	if s.cfg.Session.Secret == "secret" || s.cfg.Admin.Password == "admin" {
		s.logger.Warn("正在使用默认的管理员密码或会话密钥，请通过配置或环境变量修改")
	}

	handler, err := s.initComponents()
	if err != nil {
		return errors.Wrap(err, errors.ErrUnknown, "初始化组件失败")
	}

	s.startHTTPServer(handler)

	// 监听配置变化
	config.Watch(func(newCfg *config.Config) {
		s.logger.Info("配置已更新，正在重新加载...")
		s.reloadConfig(newCfg)
	})

	s.logger.Info("服务器启动成功",
		zap.String("http", s.cfg.Server.Addr()),
		zap.String("storage", s.store.Backend()),
	)
	return nil
}

// initComponents 目录存储、上传、会话、服务、路由
func (s *Server) initComponents() (http.Handler, error) {
	var err error

	s.store, err = catalog.Open(&s.cfg.Storage)
	if err != nil {
		return nil, err
	}
	s.logger.Info("目录存储已就绪", zap.String("backend", s.store.Backend()))

	s.uploader, err = storage.Open(s.ctx, s.cfg.Uploads)
	if err != nil {
		return nil, err
	}

	s.sessions, err = session.FromConfig(s.cfg.Session)
	if err != nil {
		return nil, err
	}

	services, err := service.NewServices(s.cfg, s.store, s.uploader, s.sessions, s.logger)
	if err != nil {
		return nil, err
	}

	gin.SetMode(ginMode(s.cfg.Server.Mode))
	router, err := api.NewRouter(s.cfg, services, s.logger.Named("http"))
	if err != nil {
		return nil, err
	}
	return router.Handler(), nil
}

func (s *Server) startHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP服务异常退出", zap.Error(err))
			// 监听失败时触发关闭流程
			s.stop()
		}
	}()
}

// WaitForShutdown 等待关闭信号
func (s *Server) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,  // Ctrl+C
		syscall.SIGTERM, // kill命令
		syscall.SIGQUIT, // Ctrl+\
	)

	select {
	case sig := <-sigCh:
		s.logger.Info("收到退出信号", zap.String("signal", sig.String()))
		s.stop()
	case <-s.shutdownCh:
	}
}

func (s *Server) stop() {
	s.stopOnce.Do(func() { close(s.shutdownCh) })
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	s.logger.Info("正在优雅关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	// 停止接收新请求，等待进行中的请求结束
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("关闭超时，强制退出", zap.Error(err))
		return errors.Wrap(err, errors.ErrTimeout, "关闭超时")
	}

	s.cancel()
	s.wg.Wait()

	if err := s.closeComponents(); err != nil {
		s.logger.Error("关闭组件失败", zap.Error(err))
		return err
	}

	if err := logger.Sync(); err != nil {
		fmt.Printf("同步日志失败: %v\n", err)
	}
	return nil
}

// closeComponents 关闭组件
func (s *Server) closeComponents() error {
	if err := s.sessions.Close(); err != nil {
		s.logger.Error("关闭会话存储失败", zap.Error(err))
	}
	if err := s.uploader.Close(); err != nil {
		s.logger.Error("关闭上传目录失败", zap.Error(err))
	}
	if err := s.store.Close(); err != nil {
		return errors.Wrap(err, errors.ErrStorageWrite, "关闭目录存储失败")
	}
	s.logger.Info("所有组件已关闭")
	return nil
}

// reloadConfig 只有日志级别支持热更新，其余配置需要重启
func (s *Server) reloadConfig(newCfg *config.Config) {
	logger.SetLevel(newCfg.Log.Level)
	s.logger.Info("配置重新加载完成", zap.String("log_level", newCfg.Log.Level))
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("游戏目录站点\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("游戏目录站点")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  game-portal [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  ADMIN_USERNAME         管理员用户名 (默认 admin)")
	fmt.Println("  ADMIN_PASSWORD         管理员密码 (默认 admin)")
	fmt.Println("  SESSION_SECRET         会话签名密钥 (默认 secret)")
	fmt.Println("  PORT                   监听端口 (默认 3000)")
	fmt.Println("  GAME_PORTAL_<KEY>      覆盖任意配置项，例如 GAME_PORTAL_STORAGE_DRIVER=sqlite")
}
