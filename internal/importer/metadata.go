package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/models"
	"gopkg.in/yaml.v3"
)

// MetadataFile 游戏目录中可选的描述文件
const MetadataFile = "game.yaml"

// Metadata game.yaml 内容，空字段不覆盖默认值
type Metadata struct {
	Title       string         `yaml:"title"`
	Category    string         `yaml:"category"`
	Description string         `yaml:"description"`
	Thumbnail   string         `yaml:"thumbnail"`
	Controls    []ControlEntry `yaml:"controls"`
}

// ControlEntry 按键说明
type ControlEntry struct {
	Key    string `yaml:"key"`
	Action string `yaml:"action"`
}

// ParseMetadata 解析 game.yaml
func ParseMetadata(data []byte) (*Metadata, error) {
	meta := &Metadata{}
	if len(bytes.TrimSpace(data)) == 0 {
		return meta, nil
	}
	if err := yaml.Unmarshal(data, meta); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidParam, "解析 game.yaml 失败")
	}
	return meta, nil
}

// loadMetadata 文件不存在时返回 nil
func loadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrStorageRead, filepath.Join(dir, MetadataFile))
	}
	meta, err := ParseMetadata(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidParam, filepath.Join(dir, MetadataFile))
	}
	return meta, nil
}

// apply 用 game.yaml 的非空字段覆盖自动生成的记录
func (m *Metadata) apply(game *models.Game, urlBase string) {
	if m == nil {
		return
	}
	if s := strings.TrimSpace(m.Title); s != "" {
		game.Title = s
	}
	if s := strings.TrimSpace(m.Category); s != "" {
		game.Category = s
	}
	if s := strings.TrimSpace(m.Description); s != "" {
		game.Description = s
	}
	if s := strings.TrimSpace(m.Thumbnail); s != "" {
		game.Thumbnail = resolveAsset(s, urlBase)
	}
	if len(m.Controls) > 0 {
		controls := make([]models.Control, 0, len(m.Controls))
		for _, c := range m.Controls {
			controls = append(controls, models.Control{
				Key:    strings.TrimSpace(c.Key),
				Action: strings.TrimSpace(c.Action),
			})
		}
		game.Controls = controls
	}
}

// resolveAsset 相对路径按游戏目录解析
func resolveAsset(ref, urlBase string) string {
	if strings.HasPrefix(ref, "/") || strings.Contains(ref, "://") {
		return ref
	}
	return urlBase + strings.TrimPrefix(ref, "./")
}
