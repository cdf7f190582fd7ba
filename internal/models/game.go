package models

import (
	"time"

	"gorm.io/datatypes"
)

// GameType 游戏接入方式
type GameType string

const (
	GameTypeIframe GameType = "iframe" // url 为外部嵌入地址
	GameTypeLocal  GameType = "local"  // url 为本地托管的 HTML 包路径
)

// Valid 是否为已知类型
func (t GameType) Valid() bool {
	return t == GameTypeIframe || t == GameTypeLocal
}

// Control 按键说明
type Control struct {
	Key    string `json:"key"`
	Action string `json:"action"`
}

// Game 目录中的游戏记录
type Game struct {
	ID          int64                       `gorm:"primaryKey" json:"id"`
	Slug        string                      `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Title       string                      `gorm:"size:255" json:"title"`
	Category    string                      `gorm:"size:100;index" json:"category"`
	Description string                      `gorm:"type:text" json:"description"`
	Type        GameType                    `gorm:"size:20" json:"type"`
	URL         string                      `gorm:"size:1024" json:"url"`
	Thumbnail   string                      `gorm:"size:1024" json:"thumbnail"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime:false" json:"createdAt"`
	Controls    datatypes.JSONSlice[Control] `json:"controls"`
}

// TableName 表名
func (Game) TableName() string {
	return "games"
}

// IsLocal 是否为本地托管游戏
func (g *Game) IsLocal() bool {
	return g.Type == GameTypeLocal
}

// Category 分类表，Position 保持配置顺序
type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Position int    `gorm:"default:0" json:"position"`
}

// TableName 表名
func (Category) TableName() string {
	return "categories"
}

// DefaultCategories 首次运行时写入的分类
var DefaultCategories = []string{"Arcade", "Puzzle", "Action", "Sport", "Classiques"}

// PlaceholderThumbnail 未上传缩略图时使用的路径
const PlaceholderThumbnail = "/img/placeholder.png"
