// Package importer 扫描 public/games 下的本地游戏包并写入目录
package importer

import (
	"context"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wfunc/game-portal/internal/catalog"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/models"
	"go.uber.org/zap"
)

// DefaultDescription 自动导入的描述
const DefaultDescription = "Jeu importé automatiquement."

// Options 导入参数
type Options struct {
	GamesDir    string // 本地游戏目录，每个子目录一个游戏
	URLPrefix   string // 对应的站点路径，默认 /games
	Placeholder string
	DryRun      bool
}

// Result 导入结果
type Result struct {
	Added   []*models.Game
	Skipped []string
}

// Importer 本地游戏导入
type Importer struct {
	store catalog.Store
	log   *zap.Logger
	pick  func(n int) int
	now   func() time.Time
}

// New 创建导入器
func New(store catalog.Store, log *zap.Logger) *Importer {
	return &Importer{
		store: store,
		log:   log,
		pick:  rand.Intn,
		now:   time.Now,
	}
}

// Run 为每个含 index.html 且 slug 未被占用的子目录创建一条 local 记录
func (im *Importer) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.URLPrefix == "" {
		opts.URLPrefix = "/games"
	}
	if opts.Placeholder == "" {
		opts.Placeholder = models.PlaceholderThumbnail
	}

	entries, err := os.ReadDir(opts.GamesDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStorageRead, opts.GamesDir)
	}

	games, err := im.store.Games(ctx)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(games))
	for _, g := range games {
		taken[g.Slug] = true
	}

	categories, err := im.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		categories = models.DefaultCategories
	}

	result := &Result{Added: make([]*models.Game, 0), Skipped: make([]string, 0)}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := entry.Name()
		gameDir := filepath.Join(opts.GamesDir, dir)
		if !isFile(filepath.Join(gameDir, "index.html")) {
			continue
		}

		slug := strings.ToLower(dir)
		if taken[slug] {
			result.Skipped = append(result.Skipped, slug)
			continue
		}

		urlBase := strings.TrimSuffix(opts.URLPrefix, "/") + "/" + url.PathEscape(dir) + "/"
		game := &models.Game{
			Slug:        slug,
			Title:       TitleFromDir(dir),
			Category:    categories[im.pick(len(categories))],
			Description: DefaultDescription,
			Type:        models.GameTypeLocal,
			URL:         urlBase + "index.html",
			Thumbnail:   opts.Placeholder,
			CreatedAt:   im.now().UTC(),
			Controls:    []models.Control{},
		}

		meta, err := loadMetadata(gameDir)
		if err != nil {
			return result, err
		}
		meta.apply(game, urlBase)

		if !opts.DryRun {
			if err := im.store.Create(ctx, game); err != nil {
				if errors.Is(err, errors.ErrDuplicateSlug) {
					result.Skipped = append(result.Skipped, slug)
					continue
				}
				return result, err
			}
		}

		taken[slug] = true
		result.Added = append(result.Added, game)
		im.log.Info("game imported",
			zap.String("slug", game.Slug),
			zap.Int64("id", game.ID),
			zap.Bool("dry_run", opts.DryRun),
		)
	}
	return result, nil
}

// TitleFromDir "space-race_2" -> "Space Race 2"：- 与 _ 换成空格，ASCII 单词首字母大写
func TitleFromDir(dir string) string {
	replaced := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, dir)

	var b strings.Builder
	prevWord := false
	for _, r := range replaced {
		word := isASCIIWord(r)
		if word && !prevWord && 'a' <= r && r <= 'z' {
			r -= 'a' - 'A'
		}
		b.WriteRune(r)
		prevWord = word
	}
	return b.String()
}

func isASCIIWord(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
