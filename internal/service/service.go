package service

import (
	"github.com/wfunc/game-portal/internal/catalog"
	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/session"
	"github.com/wfunc/game-portal/internal/utils"
	"go.uber.org/zap"
)

// Services 服务集合
type Services struct {
	Catalog CatalogService
	Auth    AuthService
}

// NewServices 创建服务集合
func NewServices(cfg *config.Config, store catalog.Store, sink ThumbnailSink, sessions *session.Manager, log *zap.Logger) (*Services, error) {
	credential, err := utils.NewAdminCredential(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return nil, err
	}

	return &Services{
		Catalog: NewCatalogService(store, sink, cfg.Site.Placeholder, log.Named("catalog")),
		Auth:    NewAuthService(credential, sessions, log.Named("auth")),
	}, nil
}
