package service

import (
	"context"
	"io"

	"github.com/wfunc/game-portal/internal/models"
	"github.com/wfunc/game-portal/internal/session"
)

// Listing 列表页数据：过滤后的游戏与完整分类列表
type Listing struct {
	Games      []*models.Game `json:"games"`
	Categories []string       `json:"categories"`
}

// Upload 一次缩略图上传
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// GameInput 后台表单提交的字段
type GameInput struct {
	Title       string
	Category    string
	Description string
	Type        string
	URL         string
	Controls    string // 每行 "key:action"
	Thumbnail   *Upload
}

// ThumbnailSink 缩略图存放位置
type ThumbnailSink interface {
	Save(ctx context.Context, originalName string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, publicPath string) error
}

// CatalogService 目录业务
type CatalogService interface {
	List(ctx context.Context, q, category string) (*Listing, error)
	Get(ctx context.Context, slug string) (*models.Game, error)
	GetByID(ctx context.Context, id int64) (*models.Game, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, input GameInput) (*models.Game, error)
	Update(ctx context.Context, id int64, input GameInput) (*models.Game, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// AuthService 管理员认证
type AuthService interface {
	Login(ctx context.Context, username, password string) (*session.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*session.Identity, error)
}
