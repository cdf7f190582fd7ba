// Package web 内嵌的 HTML 模板
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/wfunc/game-portal/internal/models"
	"github.com/wfunc/game-portal/internal/utils"
)

//go:embed templates
var files embed.FS

// Funcs 模板函数
var Funcs = template.FuncMap{
	"controlsText": func(controls []models.Control) string {
		return utils.FormatControls(controls)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006")
	},
}

// Templates 解析全部页面模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files,
		"templates/*.html",
		"templates/admin/*.html",
	)
}
