package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wfunc/game-portal/internal/models"
)

func TestParseControls(t *testing.T) {
	got := ParseControls("a: jump\n\n b :x:y \n")
	assert.Equal(t, []models.Control{
		{Key: "a", Action: "jump"},
		{Key: "b", Action: "x:y"},
	}, got)
}

func TestParseControls_CRLF(t *testing.T) {
	got := ParseControls("Space: Sauter\r\nFlèches: Bouger\r\n")
	assert.Equal(t, []models.Control{
		{Key: "Space", Action: "Sauter"},
		{Key: "Flèches", Action: "Bouger"},
	}, got)
}

func TestParseControls_NoColon(t *testing.T) {
	got := ParseControls("pause")
	assert.Equal(t, []models.Control{{Key: "pause", Action: ""}}, got)
}

func TestParseControls_Empty(t *testing.T) {
	got := ParseControls("")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, ParseControls("\n\n"))
}

func TestFormatControls(t *testing.T) {
	controls := []models.Control{{Key: "a", Action: "jump"}, {Key: "b", Action: "x:y"}}
	text := FormatControls(controls)
	assert.Equal(t, "a: jump\nb: x:y", text)
	assert.Equal(t, controls, ParseControls(text))
}
