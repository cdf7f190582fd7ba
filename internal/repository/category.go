package repository

import (
	"context"

	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/models"
	"gorm.io/gorm"
)

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	BaseRepository
	Names(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, names []string) error
}

type categoryRepo struct {
	*BaseRepo
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{BaseRepo: &BaseRepo{db: db}}
}

func (r *categoryRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &categoryRepo{BaseRepo: &BaseRepo{db: tx}}
}

// Names 按配置顺序返回分类名
func (r *categoryRepo) Names(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&models.Category{}).Order("position ASC, id ASC").Pluck("name", &names).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStorageRead)
	}
	return names, nil
}

// Replace 用给定列表整体替换分类
func (r *categoryRepo) Replace(ctx context.Context, names []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		rows := make([]models.Category, 0, len(names))
		for i, name := range names {
			rows = append(rows, models.Category{Name: name, Position: i})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrStorageWrite, "替换分类失败")
	}
	return nil
}
