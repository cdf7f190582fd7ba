package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Space Race", "space-race"},
		{"  Space   Race  ", "space-race"},
		{"Spider-Man", "spider-man"},
		{"Éclair -- Rapide!", "eclair-rapide"},
		{"Pac-Man 2: The Return", "pac-man-2-the-return"},
		{"Tom & Jerry", "tom-and-jerry"},
		{"Straße", "strasse"},
		{"a.b", "ab"},
		{"Hello, World", "hello-world"},
		{"snake_case", "snakecase"},
		{"Tetris 99", "tetris-99"},
		{"", ""},
		{"?!?", ""},
		{"Hello !", "hello"},
		{"Jouez !", "jouez"},
		{"! Go", "go"},
		{"a : b", "a-b"},
		{"a . b", "a-b"},
		{"Prêt ?\u00a0Partez !", "pret-partez"},
		{"Copyright © 2024", "copyright-c-2024"},
		{"- Spider -", "spider"},
		{"日本語", ""},
	}

	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.title))
		})
	}
}

func TestSlugifySpacedPunctuationCollides(t *testing.T) {
	assert.Equal(t, Slugify("Jouez"), Slugify("Jouez !"))
	assert.Equal(t, Slugify("Go"), Slugify("! Go"))
}

func TestSlugifyDeterministic(t *testing.T) {
	titles := []string{"Space Race", "Éclair -- Rapide!", "", "Hello !", "Crème Brûlée Deluxe"}
	for _, title := range titles {
		assert.Equal(t, Slugify(title), Slugify(title))
	}
}
