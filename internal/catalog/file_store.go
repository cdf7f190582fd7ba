package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/filelock"
	"github.com/wfunc/game-portal/internal/logger"
	"github.com/wfunc/game-portal/internal/models"
)

const (
	gamesFile      = "games.json"
	categoriesFile = "categories.json"
	lockFile       = ".catalog.lock"
)

// FileStore 数据目录下的 games.json 与 categories.json。
// 每次读取整份文件；写入先写临时文件再 rename，并由进程内互斥锁加锁文件保护。
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore 打开数据目录，首次运行时创建默认文件
func NewFileStore(dir string) (*FileStore, error) {
	s := &FileStore{dir: dir}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrStorageWrite, "创建数据目录 %s", s.dir)
	}
	if err := s.writeIfMissing(gamesFile, []*models.Game{}); err != nil {
		return err
	}
	return s.writeIfMissing(categoriesFile, models.DefaultCategories)
}

func (s *FileStore) writeIfMissing(name string, v interface{}) error {
	_, err := os.Stat(s.path(name))
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrStorageRead, "检查 %s", name)
	}
	logger.WithModule("catalog").Info("初始化数据文件")
	return s.writeJSON(name, v)
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Dir 数据目录
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Backend() string {
	return "json"
}

func (s *FileStore) readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorageRead, "读取 %s", name)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, errors.ErrCatalogCorrupt, "解析 %s 失败", name)
	}
	return nil
}

// writeJSON 两空格缩进，写临时文件后原子替换
func (s *FileStore) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorageWrite, "序列化 %s", name)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorageWrite, "创建临时文件")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, errors.ErrStorageWrite, "写入 %s", name)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, errors.ErrStorageWrite, "同步 %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrStorageWrite, "关闭 %s", name)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrStorageWrite, "设置 %s 权限", name)
	}
	if err := os.Rename(tmpPath, s.path(name)); err != nil {
		return errors.Wrapf(err, errors.ErrStorageWrite, "替换 %s", name)
	}
	return nil
}

func (s *FileStore) loadGames() ([]*models.Game, error) {
	games := make([]*models.Game, 0)
	if err := s.readJSON(gamesFile, &games); err != nil {
		return nil, err
	}
	// 文件内容为 null 时
	if games == nil {
		games = make([]*models.Game, 0)
	}
	return games, nil
}

// mutate 在锁内完成 load→fn→save；fn 返回 false 表示无需写回
func (s *FileStore) mutate(ctx context.Context, op string, fn func(games []*models.Game) ([]*models.Game, bool, error)) (err error) {
	start := time.Now()
	defer func() { logger.LogCatalogOperation(op, s.Backend(), time.Since(start), err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	lock, err := filelock.Acquire(ctx, s.path(lockFile), filelock.Options{})
	if err != nil {
		return err
	}
	defer lock.Release()

	games, err := s.loadGames()
	if err != nil {
		return err
	}
	games, changed, err := fn(games)
	if err != nil || !changed {
		return err
	}
	return s.writeJSON(gamesFile, games)
}

func (s *FileStore) Games(_ context.Context) ([]*models.Game, error) {
	return s.loadGames()
}

func (s *FileStore) Categories(_ context.Context) ([]string, error) {
	categories := make([]string, 0)
	if err := s.readJSON(categoriesFile, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = make([]string, 0)
	}
	return categories, nil
}

func (s *FileStore) FindBySlug(_ context.Context, slug string) (*models.Game, error) {
	games, err := s.loadGames()
	if err != nil {
		return nil, err
	}
	for _, g := range games {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, errors.New(errors.ErrNotFound, "游戏不存在")
}

func (s *FileStore) FindByID(_ context.Context, id int64) (*models.Game, error) {
	games, err := s.loadGames()
	if err != nil {
		return nil, err
	}
	if g := findByID(games, id); g != nil {
		return g, nil
	}
	return nil, errors.New(errors.ErrNotFound, "游戏不存在")
}

func findByID(games []*models.Game, id int64) *models.Game {
	for _, g := range games {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (s *FileStore) Create(ctx context.Context, game *models.Game) error {
	return s.mutate(ctx, "create", func(games []*models.Game) ([]*models.Game, bool, error) {
		var maxID int64
		for _, g := range games {
			if g.Slug == game.Slug {
				return nil, false, errors.Newf(errors.ErrDuplicateSlug, "slug %q", game.Slug)
			}
			if g.ID > maxID {
				maxID = g.ID
			}
		}
		game.ID = maxID + 1
		return append(games, game), true, nil
	})
}

func (s *FileStore) Update(ctx context.Context, id int64, fn UpdateFunc) (*models.Game, error) {
	var updated *models.Game
	err := s.mutate(ctx, "update", func(games []*models.Game) ([]*models.Game, bool, error) {
		g := findByID(games, id)
		if g == nil {
			return nil, false, errors.New(errors.ErrNotFound, "游戏不存在")
		}
		if err := fn(g); err != nil {
			return nil, false, err
		}
		// 主键不允许被修改
		g.ID = id
		updated = g
		return games, true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *FileStore) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", func(games []*models.Game) ([]*models.Game, bool, error) {
		kept := make([]*models.Game, 0, len(games))
		for _, g := range games {
			if g.ID != id {
				kept = append(kept, g)
			}
		}
		return kept, len(kept) != len(games), nil
	})
}

// Ping 数据文件可读且可解析
func (s *FileStore) Ping(_ context.Context) error {
	_, err := s.loadGames()
	return err
}

func (s *FileStore) Close() error {
	return nil
}
