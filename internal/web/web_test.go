package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/game-portal/internal/models"
)

type page struct {
	Site       string
	Title      string
	User       string
	Q, Cat     string
	Games      []*models.Game
	Categories []string
	Game       *models.Game
	Autoplay   bool
	Error      string
	Next       string
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"home", "game", "404", "admin/login", "admin/dashboard", "admin/new", "admin/edit"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	game := &models.Game{
		ID:        7,
		Slug:      "space-race",
		Title:     "Space <Race>",
		Category:  "Arcade",
		Type:      models.GameTypeIframe,
		URL:       "http://x",
		Thumbnail: "/img/placeholder.png",
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Controls:  []models.Control{{Key: "a", Action: "jump"}},
	}
	data := page{
		Site:       "Game Portal",
		Games:      []*models.Game{game},
		Categories: models.DefaultCategories,
		Game:       game,
		Cat:        "Arcade",
		Next:       "/admin",
	}

	for _, name := range []string{"home", "game", "404", "admin/login", "admin/dashboard", "admin/new", "admin/edit"} {
		var buf bytes.Buffer
		require.NoError(t, tmpl.ExecuteTemplate(&buf, name, data), name)
		assert.Contains(t, buf.String(), "Game Portal", name)
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "admin/edit", data))
	assert.Contains(t, buf.String(), "a: jump")
	assert.Contains(t, buf.String(), "Space &lt;Race&gt;")
	assert.Contains(t, buf.String(), `<option value="Arcade" selected>`)

	buf.Reset()
	data.Autoplay = true
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "game", data))
	assert.Contains(t, buf.String(), `<iframe src="http://x"`)
	assert.Contains(t, buf.String(), "01/05/2024")
}
