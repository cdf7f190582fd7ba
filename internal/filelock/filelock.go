// Package filelock 基于 O_EXCL 锁文件的跨进程互斥
package filelock

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/logger"
	"go.uber.org/zap"
)

const (
	// DefaultStaleAfter 持有者崩溃后锁文件被视为过期的时间
	DefaultStaleAfter = 5 * time.Minute
	// DefaultRetryInterval 重试间隔
	DefaultRetryInterval = 50 * time.Millisecond
)

// Lock 已持有的锁
type Lock struct {
	path string
	file *os.File
}

// Options 获取锁的参数
type Options struct {
	StaleAfter    time.Duration
	RetryInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.StaleAfter <= 0 {
		o.StaleAfter = DefaultStaleAfter
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = DefaultRetryInterval
	}
	return o
}

// Acquire 获取锁，直到成功或 ctx 结束
func Acquire(ctx context.Context, path string, opts Options) (*Lock, error) {
	opts = opts.withDefaults()
	log := logger.WithModule("storage")

	for attempt := 1; ; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
		if err == nil {
			_, _ = f.WriteString(time.Now().Format(time.RFC3339Nano))
			return &Lock{path: path, file: f}, nil
		}
		if !os.IsExist(err) {
			return nil, errors.Wrapf(err, errors.ErrStorageLock, "创建锁文件 %s", path)
		}

		if info, statErr := os.Stat(path); statErr == nil && time.Since(info.ModTime()) > opts.StaleAfter {
			log.Warn("锁文件过期，强制删除", zap.String("lock", path), zap.Duration("age", time.Since(info.ModTime())))
			_ = os.Remove(path)
			continue
		}

		log.Debug("等待锁", zap.String("lock", path), zap.Int("attempt", attempt))
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), errors.ErrStorageLock, "等待锁 %s 超时", path)
		case <-time.After(opts.RetryInterval):
		}
	}
}

// Release 释放锁，可重复调用
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = l.file.Close()
	l.file = nil
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrStorageLock, "删除锁文件失败")
	}
	return nil
}

// Path 锁文件路径
func (l *Lock) Path() string {
	return l.path
}

// CleanupStale 删除目录下超过 staleAfter 的 *.lock 文件，返回删除数量
func CleanupStale(dir string, staleAfter time.Duration) int {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.lock"))
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || time.Since(info.ModTime()) <= staleAfter {
			continue
		}
		logger.WithModule("storage").Info("清理过期锁文件", zap.String("file", path))
		if os.Remove(path) == nil {
			removed++
		}
	}
	return removed
}
