package repository

import (
	"context"
	stderrors "errors"

	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/models"
	"gorm.io/gorm"
)

// GameRepository 游戏仓储接口
type GameRepository interface {
	BaseRepository
	Create(ctx context.Context, game *models.Game) error
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Game, error)
	FindBySlug(ctx context.Context, slug string) (*models.Game, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	GetAll(ctx context.Context) ([]*models.Game, error)
	Count(ctx context.Context) (int64, error)
}

type gameRepo struct {
	*BaseRepo
}

// NewGameRepository 创建游戏仓储
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepo{BaseRepo: &BaseRepo{db: db}}
}

func (r *gameRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &gameRepo{BaseRepo: &BaseRepo{db: tx}}
}

// Create 插入游戏，slug 唯一索引冲突时返回 ErrDuplicateSlug
func (r *gameRepo) Create(ctx context.Context, game *models.Game) error {
	err := r.db.WithContext(ctx).Create(game).Error
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Newf(errors.ErrDuplicateSlug, "slug %q", game.Slug)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrStorageWrite, "创建游戏失败")
	}
	return nil
}

// Update 整行覆盖
func (r *gameRepo) Update(ctx context.Context, game *models.Game) error {
	res := r.db.WithContext(ctx).Save(game)
	if res.Error != nil {
		return errors.Wrap(res.Error, errors.ErrStorageWrite, "更新游戏失败")
	}
	return nil
}

// Delete 按 id 删除，记录不存在不报错
func (r *gameRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Game{}, id).Error; err != nil {
		return errors.Wrap(err, errors.ErrStorageWrite, "删除游戏失败")
	}
	return nil
}

// FindByID 根据ID查找游戏
func (r *gameRepo) FindByID(ctx context.Context, id int64) (*models.Game, error) {
	var game models.Game
	err := r.db.WithContext(ctx).First(&game, id).Error
	return r.found(&game, err)
}

// FindBySlug 根据 slug 查找游戏
func (r *gameRepo) FindBySlug(ctx context.Context, slug string) (*models.Game, error) {
	var game models.Game
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&game).Error
	return r.found(&game, err)
}

func (r *gameRepo) found(game *models.Game, err error) (*models.Game, error) {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrNotFound, "游戏不存在")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStorageRead)
	}
	return game, nil
}

// ExistsBySlug slug 是否已被占用
func (r *gameRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Game{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, errors.ErrStorageRead)
	}
	return count > 0, nil
}

// GetAll 按创建顺序返回全部游戏
func (r *gameRepo) GetAll(ctx context.Context) ([]*models.Game, error) {
	var games []*models.Game
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&games).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrStorageRead)
	}
	return games, nil
}

// Count 游戏总数
func (r *gameRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Game{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrStorageRead)
	}
	return count, nil
}
