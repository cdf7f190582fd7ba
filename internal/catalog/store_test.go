package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/models"
)

// StoreTestSuite 两种后端共用的存储契约
type StoreTestSuite struct {
	suite.Suite
	open  func(dir string) (Store, error)
	store Store
}

func (suite *StoreTestSuite) SetupTest() {
	store, err := suite.open(suite.T().TempDir())
	suite.Require().NoError(err)
	suite.store = store
}

func (suite *StoreTestSuite) TearDownTest() {
	suite.NoError(suite.store.Close())
}

func game(slug, title, category string) *models.Game {
	return &models.Game{
		Slug:      slug,
		Title:     title,
		Category:  category,
		Type:      models.GameTypeIframe,
		URL:       "http://x",
		Thumbnail: models.PlaceholderThumbnail,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Controls:  []models.Control{},
	}
}

func (suite *StoreTestSuite) TestFirstRun() {
	ctx := context.Background()

	games, err := suite.store.Games(ctx)
	suite.NoError(err)
	suite.NotNil(games)
	suite.Empty(games)

	categories, err := suite.store.Categories(ctx)
	suite.NoError(err)
	suite.Equal(models.DefaultCategories, categories)

	suite.NoError(suite.store.Ping(ctx))
}

func (suite *StoreTestSuite) TestCreateAssignsMonotonicIDs() {
	ctx := context.Background()
	a := game("a", "A", "Arcade")
	b := game("b", "B", "Arcade")
	suite.Require().NoError(suite.store.Create(ctx, a))
	suite.Require().NoError(suite.store.Create(ctx, b))
	suite.Greater(b.ID, a.ID)

	suite.Require().NoError(suite.store.Delete(ctx, b.ID))
	c := game("c", "C", "Arcade")
	suite.Require().NoError(suite.store.Create(ctx, c))
	suite.Greater(c.ID, a.ID)
}

func (suite *StoreTestSuite) TestDuplicateSlugLeavesStoreUnchanged() {
	ctx := context.Background()
	suite.Require().NoError(suite.store.Create(ctx, game("space-race", "Space Race", "Arcade")))

	err := suite.store.Create(ctx, game("space-race", "Space Race", "Sport"))
	suite.True(errors.Is(err, errors.ErrDuplicateSlug))

	games, err := suite.store.Games(ctx)
	suite.NoError(err)
	suite.Len(games, 1)
	suite.Equal("Arcade", games[0].Category)
}

func (suite *StoreTestSuite) TestEmptySlugIsStillUnique() {
	ctx := context.Background()
	suite.Require().NoError(suite.store.Create(ctx, game("", "?!", "Arcade")))
	err := suite.store.Create(ctx, game("", "...", "Arcade"))
	suite.True(errors.Is(err, errors.ErrDuplicateSlug))
}

func (suite *StoreTestSuite) TestFind() {
	ctx := context.Background()
	g := game("space-race", "Space Race", "Arcade")
	g.Controls = []models.Control{{Key: "a", Action: "x:y"}}
	suite.Require().NoError(suite.store.Create(ctx, g))

	bySlug, err := suite.store.FindBySlug(ctx, "space-race")
	suite.Require().NoError(err)
	suite.Equal(g.ID, bySlug.ID)
	suite.Equal([]models.Control{{Key: "a", Action: "x:y"}}, []models.Control(bySlug.Controls))
	suite.True(g.CreatedAt.Equal(bySlug.CreatedAt))

	byID, err := suite.store.FindByID(ctx, g.ID)
	suite.Require().NoError(err)
	suite.Equal("Space Race", byID.Title)

	_, err = suite.store.FindBySlug(ctx, "missing")
	suite.True(errors.Is(err, errors.ErrNotFound))
	_, err = suite.store.FindByID(ctx, g.ID+100)
	suite.True(errors.Is(err, errors.ErrNotFound))
}

func (suite *StoreTestSuite) TestUpdate() {
	ctx := context.Background()
	g := game("space-race", "Space Race", "Arcade")
	suite.Require().NoError(suite.store.Create(ctx, g))

	updated, err := suite.store.Update(ctx, g.ID, func(game *models.Game) error {
		game.Title = "Space Race Deluxe"
		game.Category = "Sport"
		game.ID = 9999
		return nil
	})
	suite.Require().NoError(err)
	suite.Equal(g.ID, updated.ID)

	found, err := suite.store.FindByID(ctx, g.ID)
	suite.Require().NoError(err)
	suite.Equal("Space Race Deluxe", found.Title)
	suite.Equal("Sport", found.Category)
	suite.Equal("space-race", found.Slug)
}

func (suite *StoreTestSuite) TestUpdateMissing() {
	_, err := suite.store.Update(context.Background(), 42, func(*models.Game) error { return nil })
	suite.True(errors.Is(err, errors.ErrNotFound))
}

func (suite *StoreTestSuite) TestUpdateAborted() {
	ctx := context.Background()
	g := game("space-race", "Space Race", "Arcade")
	suite.Require().NoError(suite.store.Create(ctx, g))

	_, err := suite.store.Update(ctx, g.ID, func(game *models.Game) error {
		game.Title = "changed"
		return errors.New(errors.ErrInvalidGameType)
	})
	suite.True(errors.Is(err, errors.ErrInvalidGameType))

	found, err := suite.store.FindByID(ctx, g.ID)
	suite.Require().NoError(err)
	suite.Equal("Space Race", found.Title)
}

func (suite *StoreTestSuite) TestDeleteIsIdempotent() {
	ctx := context.Background()
	g := game("space-race", "Space Race", "Arcade")
	suite.Require().NoError(suite.store.Create(ctx, g))

	suite.NoError(suite.store.Delete(ctx, g.ID+1))
	games, err := suite.store.Games(ctx)
	suite.NoError(err)
	suite.Len(games, 1)

	suite.NoError(suite.store.Delete(ctx, g.ID))
	suite.NoError(suite.store.Delete(ctx, g.ID))
	games, err = suite.store.Games(ctx)
	suite.NoError(err)
	suite.Empty(games)
}

func (suite *StoreTestSuite) TestConcurrentCreates() {
	ctx := context.Background()
	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			suite.NoError(suite.store.Create(ctx, game(fmt.Sprintf("g-%d", i), "G", "Arcade")))
		}(i)
	}
	wg.Wait()

	games, err := suite.store.Games(ctx)
	suite.NoError(err)
	suite.Len(games, n)

	ids := make(map[int64]bool)
	for _, g := range games {
		ids[g.ID] = true
	}
	suite.Len(ids, n)
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{open: func(dir string) (Store, error) {
		return Open(&config.StorageConfig{Driver: "json", DataDir: filepath.Join(dir, "data")})
	}})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{open: func(dir string) (Store, error) {
		return Open(&config.StorageConfig{
			Driver:      "sqlite",
			DSN:         filepath.Join(dir, "data", "catalog.db"),
			LogLevel:    "silent",
			AutoMigrate: true,
		})
	}})
}
