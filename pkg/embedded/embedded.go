// Package embedded 提供内置数据文件的统一访问接口
//
// 默认的 morph.yaml 和 cards.yaml 随二进制一起发布，
// 命令行未指定 --config / --cards 时使用这里的版本。
package embedded

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/decker502/aeromorph/pkg/config"
)

// 内置数据文件路径
const (
	MorphConfigPath = "data/morph.yaml"
	CardDeckPath    = "data/cards.yaml"
)

//go:embed data
var dataFS embed.FS

// normalize 标准化路径分隔符并去掉 "./" 前缀（embed.FS 使用正斜杠）
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// Open 打开内置文件，路径必须以 "data/" 开头
func Open(path string) (fs.File, error) {
	path = normalize(path)
	if !strings.HasPrefix(path, "data/") {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return dataFS.Open(path)
}

// ReadFile 读取内置文件内容
func ReadFile(path string) ([]byte, error) {
	path = normalize(path)
	if !strings.HasPrefix(path, "data/") {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查内置文件是否存在
func Exists(path string) bool {
	f, err := Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// MorphConfig 解析内置的 morph.yaml
func MorphConfig() (*config.MorphConfig, error) {
	data, err := ReadFile(MorphConfigPath)
	if err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}
	return config.ParseMorphConfig(data)
}

// CardDeck 解析内置的 cards.yaml
func CardDeck() (*config.CardDeck, error) {
	data, err := ReadFile(CardDeckPath)
	if err != nil {
		return nil, fmt.Errorf("读取内置卡组失败: %w", err)
	}
	return config.ParseCardDeck(data)
}

// LoadMorphConfig 优先读取 path 指向的文件，path 为空时使用内置版本
func LoadMorphConfig(path string) (*config.MorphConfig, error) {
	if path == "" {
		return MorphConfig()
	}
	return config.LoadMorphConfig(path)
}

// LoadCardDeck 优先读取 path 指向的文件，path 为空时使用内置版本
func LoadCardDeck(path string) (*config.CardDeck, error) {
	if path == "" {
		return CardDeck()
	}
	return config.LoadCardDeck(path)
}
