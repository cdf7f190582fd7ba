package service

import (
	"context"
	"strings"
	"time"

	"github.com/wfunc/game-portal/internal/catalog"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/models"
	"github.com/wfunc/game-portal/internal/utils"
	"go.uber.org/zap"
)

type catalogService struct {
	store       catalog.Store
	sink        ThumbnailSink
	placeholder string
	now         func() time.Time
	log         *zap.Logger
}

// NewCatalogService 创建目录服务
func NewCatalogService(store catalog.Store, sink ThumbnailSink, placeholder string, log *zap.Logger) CatalogService {
	if placeholder == "" {
		placeholder = models.PlaceholderThumbnail
	}
	return &catalogService{
		store:       store,
		sink:        sink,
		placeholder: placeholder,
		now:         time.Now,
		log:         log,
	}
}

func (s *catalogService) List(ctx context.Context, q, category string) (*Listing, error) {
	games, err := s.store.Games(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return &Listing{Games: catalog.Filter(games, q, category), Categories: categories}, nil
}

func (s *catalogService) Get(ctx context.Context, slug string) (*models.Game, error) {
	return s.store.FindBySlug(ctx, slug)
}

func (s *catalogService) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	return s.store.FindByID(ctx, id)
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

func (s *catalogService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *catalogService) Create(ctx context.Context, input GameInput) (*models.Game, error) {
	gameType, err := parseGameType(input.Type)
	if err != nil {
		return nil, err
	}

	slug := utils.Slugify(input.Title)
	// 先查重，避免为被拒绝的请求保存缩略图
	if _, err := s.store.FindBySlug(ctx, slug); err == nil {
		return nil, errors.Newf(errors.ErrDuplicateSlug, "slug %q", slug)
	} else if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	s.checkCategory(ctx, input.Category)

	thumbnail := s.placeholder
	uploaded := false
	if input.Thumbnail != nil {
		if thumbnail, err = s.saveThumbnail(ctx, input.Thumbnail); err != nil {
			return nil, err
		}
		uploaded = true
	}

	game := &models.Game{
		Slug:        slug,
		Title:       input.Title,
		Category:    input.Category,
		Description: input.Description,
		Type:        gameType,
		URL:         input.URL,
		Thumbnail:   thumbnail,
		CreatedAt:   s.now().UTC(),
		Controls:    utils.ParseControls(input.Controls),
	}

	if err := s.store.Create(ctx, game); err != nil {
		if uploaded {
			s.discard(ctx, thumbnail)
		}
		return nil, err
	}

	s.log.Info("game created", zap.Int64("id", game.ID), zap.String("slug", game.Slug))
	return game, nil
}

// Update 覆盖可编辑字段；slug、id、createdAt 保持不变，缩略图只在有新上传时替换
func (s *catalogService) Update(ctx context.Context, id int64, input GameInput) (*models.Game, error) {
	gameType, err := parseGameType(input.Type)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return nil, err
	}

	s.checkCategory(ctx, input.Category)

	thumbnail := ""
	if input.Thumbnail != nil {
		if thumbnail, err = s.saveThumbnail(ctx, input.Thumbnail); err != nil {
			return nil, err
		}
	}

	controls := utils.ParseControls(input.Controls)
	game, err := s.store.Update(ctx, id, func(g *models.Game) error {
		g.Title = input.Title
		g.Category = input.Category
		g.Description = input.Description
		g.Type = gameType
		g.URL = input.URL
		g.Controls = controls
		if thumbnail != "" {
			g.Thumbnail = thumbnail
		}
		return nil
	})
	if err != nil {
		if thumbnail != "" {
			s.discard(ctx, thumbnail)
		}
		return nil, err
	}

	s.log.Info("game updated", zap.Int64("id", id), zap.String("slug", game.Slug))
	return game, nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("game deleted", zap.Int64("id", id))
	return nil
}

func (s *catalogService) saveThumbnail(ctx context.Context, upload *Upload) (string, error) {
	if s.sink == nil {
		return "", errors.New(errors.ErrUploadFailed, "未配置上传目录")
	}
	return s.sink.Save(ctx, upload.Filename, upload.Reader, upload.ContentType)
}

func (s *catalogService) discard(ctx context.Context, thumbnail string) {
	if err := s.sink.Delete(ctx, thumbnail); err != nil {
		s.log.Warn("清理缩略图失败", zap.String("thumbnail", thumbnail), zap.Error(err))
	}
}

// checkCategory 分类不强制属于分类列表，只记录警告
func (s *catalogService) checkCategory(ctx context.Context, category string) {
	categories, err := s.store.Categories(ctx)
	if err != nil || catalog.ContainsCategory(categories, category) {
		return
	}
	s.log.Warn("分类不在分类列表中", zap.String("category", category))
}

func parseGameType(raw string) (models.GameType, error) {
	t := models.GameType(strings.TrimSpace(raw))
	if !t.Valid() {
		return "", errors.Newf(errors.ErrInvalidGameType, "type %q", raw)
	}
	return t, nil
}
