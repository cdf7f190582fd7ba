package database

import (
	"context"
	"path/filepath"
	"time"

	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/filelock"
	"github.com/wfunc/game-portal/internal/logger"
	"github.com/wfunc/game-portal/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate 建表并写入默认分类
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New(errors.ErrDatabaseConnect, "数据库未初始化")
	}

	// 文件型 sqlite 由多个进程共享时（服务与批量导入），迁移需要互斥
	if path := sqlitePath(db); path != "" {
		filelock.CleanupStale(filepath.Dir(path), 10*time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		lock, err := filelock.Acquire(ctx, path+".migration.lock", filelock.Options{RetryInterval: time.Second})
		if err != nil {
			logger.Error("无法获取迁移锁", zap.Error(err))
			return err
		}
		defer lock.Release()
	}

	logger.Info("开始数据库迁移...")
	for _, model := range []interface{}{&models.Game{}, &models.Category{}} {
		if err := db.AutoMigrate(model); err != nil {
			logger.Error("迁移失败", zap.String("model", modelName(model)), zap.Error(err))
			return errors.Wrapf(err, errors.ErrStorageWrite, "迁移 %s 失败", modelName(model))
		}
		logger.GetLogger().Debug("迁移成功", zap.String("model", modelName(model)))
	}

	if err := seedCategories(db); err != nil {
		return err
	}

	logger.Info("数据库迁移完成")
	return nil
}

// seedCategories 分类表为空时写入默认分类
func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, errors.ErrStorageRead)
	}
	if count > 0 {
		return nil
	}

	categories := make([]models.Category, 0, len(models.DefaultCategories))
	for i, name := range models.DefaultCategories {
		categories = append(categories, models.Category{Name: name, Position: i})
	}
	if err := db.Create(&categories).Error; err != nil {
		return errors.Wrap(err, errors.ErrStorageWrite, "写入默认分类失败")
	}
	logger.Info("已写入默认分类", zap.Int("count", len(categories)))
	return nil
}

func modelName(model interface{}) string {
	if t, ok := model.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return "unknown"
}

// sqlitePath 文件型 sqlite 的路径，其余情况返回空
func sqlitePath(db *gorm.DB) string {
	if db.Dialector.Name() != "sqlite" {
		return ""
	}
	sqlDB, err := db.DB()
	if err != nil {
		return ""
	}

	var (
		seq        int
		name, file string
	)
	if err := sqlDB.QueryRow("PRAGMA database_list").Scan(&seq, &name, &file); err != nil {
		return ""
	}
	return file
}
