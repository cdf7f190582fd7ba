package utils

import (
	"strings"

	"github.com/wfunc/game-portal/internal/models"
)

// ParseControls 解析后台表单中的按键说明，每行一个 "key:action"。
// 只在第一个冒号处切分，action 中的其余冒号原样保留；空行被丢弃。
func ParseControls(input string) []models.Control {
	controls := make([]models.Control, 0)
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		key, action, _ := strings.Cut(line, ":")
		controls = append(controls, models.Control{
			Key:    strings.TrimSpace(key),
			Action: strings.TrimSpace(action),
		})
	}
	return controls
}

// FormatControls 把按键说明还原为表单文本，用于编辑页回填
func FormatControls(controls []models.Control) string {
	lines := make([]string, 0, len(controls))
	for _, c := range controls {
		lines = append(lines, c.Key+": "+c.Action)
	}
	return strings.Join(lines, "\n")
}
