// Package catalog 游戏目录的持久化。JSON 文件与 SQL 两种后端实现同一个 Store。
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/database"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/models"
)

// UpdateFunc 在存储锁内修改记录，返回错误则放弃本次修改
type UpdateFunc func(game *models.Game) error

// Store 目录存储
type Store interface {
	// Games 按创建顺序返回全部游戏
	Games(ctx context.Context) ([]*models.Game, error)
	Categories(ctx context.Context) ([]string, error)
	FindBySlug(ctx context.Context, slug string) (*models.Game, error)
	FindByID(ctx context.Context, id int64) (*models.Game, error)
	// Create 分配 id 并追加；slug 已存在时返回 ErrDuplicateSlug 且不修改存储
	Create(ctx context.Context, game *models.Game) error
	// Update 读取、修改、写回在同一把锁内完成；id 不存在返回 ErrNotFound
	Update(ctx context.Context, id int64, fn UpdateFunc) (*models.Game, error)
	// Delete 删除不存在的 id 不报错
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Backend() string
	Close() error
}

// Open 按 storage.driver 打开存储
func Open(cfg *config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "json":
		return NewFileStore(cfg.DataDir)
	case "sqlite", "sqlite3", "mysql", "postgres", "postgresql":
		if cfg.Driver == "sqlite" || cfg.Driver == "sqlite3" {
			if err := ensureSQLiteDir(cfg.DSN); err != nil {
				return nil, err
			}
		}
		db, err := database.Open(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				_ = database.Close(db)
				return nil, err
			}
		}
		return NewDBStore(db), nil
	default:
		return nil, errors.Newf(errors.ErrConfigValidate, "unknown storage driver %q", cfg.Driver)
	}
}

func ensureSQLiteDir(dsn string) error {
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrStorageWrite, "创建数据目录失败")
	}
	return nil
}

// Filter 标题不区分大小写的子串匹配与分类精确匹配，取交集；空值表示不过滤
func Filter(games []*models.Game, q, category string) []*models.Game {
	needle := strings.ToLower(q)
	out := make([]*models.Game, 0, len(games))
	for _, g := range games {
		if needle != "" && !strings.Contains(strings.ToLower(g.Title), needle) {
			continue
		}
		if category != "" && g.Category != category {
			continue
		}
		out = append(out, g)
	}
	return out
}

// ContainsCategory 分类是否在列表中
func ContainsCategory(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
