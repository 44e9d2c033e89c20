package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDeck 卡组为空
var ErrEmptyDeck = errors.New("card deck is empty")

// Card 一张旅程卡片的展示元数据
// 图片只作为引用保存，不在引擎内加载
type Card struct {
	Image       string `yaml:"image"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// CardDeck 有序卡组，顺序即卡片索引
type CardDeck struct {
	Cards []Card `yaml:"cards"`
}

// Len 卡片数量
func (d *CardDeck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Cards)
}

// ParseCardDeck 解析卡组 YAML
func ParseCardDeck(data []byte) (*CardDeck, error) {
	var deck CardDeck
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("解析卡组失败: %w", err)
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return &deck, nil
}

// LoadCardDeck 从文件加载卡组
func LoadCardDeck(path string) (*CardDeck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取卡组失败: %w", err)
	}
	return ParseCardDeck(data)
}

// Validate 校验卡组：至少一张卡，且每张卡都有标题
func (d *CardDeck) Validate() error {
	if d.Len() == 0 {
		return ErrEmptyDeck
	}
	for i, c := range d.Cards {
		if strings.TrimSpace(c.Title) == "" {
			return fmt.Errorf("card %d: missing title", i)
		}
	}
	return nil
}
