package catalog

import (
	"context"
	"time"

	"github.com/wfunc/game-portal/internal/database"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/logger"
	"github.com/wfunc/game-portal/internal/models"
	"github.com/wfunc/game-portal/internal/repository"
	"gorm.io/gorm"
)

// DBStore 基于 gorm 的目录存储
type DBStore struct {
	db         *gorm.DB
	games      repository.GameRepository
	categories repository.CategoryRepository
}

// NewDBStore 包装已迁移的数据库连接
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{
		db:         db,
		games:      repository.NewGameRepository(db),
		categories: repository.NewCategoryRepository(db),
	}
}

func (s *DBStore) Backend() string {
	return s.db.Dialector.Name()
}

func (s *DBStore) Games(ctx context.Context) ([]*models.Game, error) {
	return s.games.GetAll(ctx)
}

func (s *DBStore) Categories(ctx context.Context) ([]string, error) {
	return s.categories.Names(ctx)
}

func (s *DBStore) FindBySlug(ctx context.Context, slug string) (*models.Game, error) {
	return s.games.FindBySlug(ctx, slug)
}

func (s *DBStore) FindByID(ctx context.Context, id int64) (*models.Game, error) {
	return s.games.FindByID(ctx, id)
}

func (s *DBStore) Create(ctx context.Context, game *models.Game) (err error) {
	start := time.Now()
	defer func() { logger.LogCatalogOperation("create", s.Backend(), time.Since(start), err) }()

	exists, err := s.games.ExistsBySlug(ctx, game.Slug)
	if err != nil {
		return err
	}
	if exists {
		return errors.Newf(errors.ErrDuplicateSlug, "slug %q", game.Slug)
	}
	// 并发插入由唯一索引兜底
	return s.games.Create(ctx, game)
}

func (s *DBStore) Update(ctx context.Context, id int64, fn UpdateFunc) (updated *models.Game, err error) {
	start := time.Now()
	defer func() { logger.LogCatalogOperation("update", s.Backend(), time.Since(start), err) }()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.games.WithTx(tx).(repository.GameRepository)
		game, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(game); err != nil {
			return err
		}
		game.ID = id
		if err := repo.Update(ctx, game); err != nil {
			return err
		}
		updated = game
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *DBStore) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { logger.LogCatalogOperation("delete", s.Backend(), time.Since(start), err) }()
	return s.games.Delete(ctx, id)
}

func (s *DBStore) Ping(ctx context.Context) error {
	return database.Ping(ctx, s.db)
}

func (s *DBStore) Close() error {
	return database.Close(s.db)
}
