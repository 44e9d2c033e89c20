package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/decker502/aeromorph/pkg/utils"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid morph config")

// MorphConfig 滚动形变引擎的全部可调参数
//
// 所有数值都来自落地页原始实现的经验值，这里作为命名参数暴露，
// 可通过 morph.yaml 覆盖，也可在运行时热加载。
type MorphConfig struct {
	Scroll  ScrollConfig  `yaml:"scroll"`
	Phase   PhaseConfig   `yaml:"phase"`
	Signals SignalsConfig `yaml:"signals"`
	Layout  LayoutConfig  `yaml:"layout"`
	Motion  MotionConfig  `yaml:"motion"`
}

// ScrollConfig 虚拟滚动输入配置
type ScrollConfig struct {
	// MaxScroll 虚拟滚动值上界，下界固定为 0
	MaxScroll float64 `yaml:"max_scroll"`
	// PinThreshold 区块顶边距视口顶部超过该值时，向下滚动交给页面原生滚动
	PinThreshold float64 `yaml:"pin_threshold"`
	// WheelLineHeight 宿主按"行"报告滚轮增量时，每行折算的滚动单位
	WheelLineHeight float64 `yaml:"wheel_line_height"`
}

// PhaseConfig 开场阶段计时（均从触发时刻起算）
type PhaseConfig struct {
	LineDelay   time.Duration `yaml:"line_delay"`
	CircleDelay time.Duration `yaml:"circle_delay"`
}

// SignalsConfig 滚动值 → 驱动信号的分段映射
type SignalsConfig struct {
	MorphInput    []float64    `yaml:"morph_input"`
	MorphOutput   []float64    `yaml:"morph_output"`
	RotateInput   []float64    `yaml:"rotate_input"`
	RotateOutput  []float64    `yaml:"rotate_output"`
	ContentInput  []float64    `yaml:"content_input"`
	ContentOffset []float64    `yaml:"content_offset"`
	HintOpacity   float64      `yaml:"hint_opacity"`
	Spring        SpringConfig `yaml:"spring"`
}

// SpringConfig 弹簧参数
type SpringConfig struct {
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Mass      float64 `yaml:"mass"`
}

// Params 转换为 utils.SpringParams
func (s SpringConfig) Params() utils.SpringParams {
	return utils.SpringParams{Stiffness: s.Stiffness, Damping: s.Damping, Mass: s.Mass}
}

// LayoutConfig 几何布局参数
type LayoutConfig struct {
	CardWidth        float64       `yaml:"card_width"`
	CardHeight       float64       `yaml:"card_height"`
	NarrowBreakpoint float64       `yaml:"narrow_breakpoint"`
	Scatter          ScatterConfig `yaml:"scatter"`
	Line             LineConfig    `yaml:"line"`
	Circle           CircleConfig  `yaml:"circle"`
	Arc              ArcConfig     `yaml:"arc"`
}

// ScatterConfig 散落布局：随机区间宽度（以 0 为中心）
type ScatterConfig struct {
	SpanX        float64 `yaml:"span_x"`
	SpanY        float64 `yaml:"span_y"`
	SpanRotation float64 `yaml:"span_rotation"`
	Scale        float64 `yaml:"scale"`
}

// LineConfig 横排布局
type LineConfig struct {
	Spacing float64 `yaml:"spacing"`
}

// CircleConfig 圆形布局
type CircleConfig struct {
	RadiusRatio float64 `yaml:"radius_ratio"`
	MaxRadius   float64 `yaml:"max_radius"`
	OffsetY     float64 `yaml:"offset_y"`
}

// ArcConfig 底部弧形布局
type ArcConfig struct {
	Wide   ArcProfile `yaml:"wide"`
	Narrow ArcProfile `yaml:"narrow"`
	// BaseHeightFactor 基础半径 = min(宽, 高 × BaseHeightFactor)
	BaseHeightFactor float64 `yaml:"base_height_factor"`
	OffsetY          float64 `yaml:"offset_y"`
	// RotateDivisor 旋转信号除以该值后夹紧到 [0,1] 作为洗牌进度
	RotateDivisor float64 `yaml:"rotate_divisor"`
	// RotationFactor 最大整体旋转 = 展开角 × RotationFactor
	RotationFactor float64 `yaml:"rotation_factor"`
}

// ArcProfile 按设备宽窄区分的弧形参数
type ArcProfile struct {
	RadiusFactor float64 `yaml:"radius_factor"`
	ApexRatio    float64 `yaml:"apex_ratio"`
	Spread       float64 `yaml:"spread"`
	Scale        float64 `yaml:"scale"`
}

// MotionConfig 卡片渲染位姿的逐字段弹簧
type MotionConfig struct {
	Spring SpringConfig `yaml:"spring"`
}

// DefaultMorphConfig 返回默认配置
func DefaultMorphConfig() *MorphConfig {
	return &MorphConfig{
		Scroll: ScrollConfig{
			MaxScroll:       3000,
			PinThreshold:    5,
			WheelLineHeight: 100,
		},
		Phase: PhaseConfig{
			LineDelay:   500 * time.Millisecond,
			CircleDelay: 2500 * time.Millisecond,
		},
		Signals: SignalsConfig{
			MorphInput:    []float64{0, 600},
			MorphOutput:   []float64{0, 1},
			RotateInput:   []float64{600, 3000},
			RotateOutput:  []float64{0, 1100},
			ContentInput:  []float64{0.8, 1},
			ContentOffset: []float64{20, 0},
			HintOpacity:   0.5,
			Spring:        SpringConfig{Stiffness: 40, Damping: 20, Mass: 1},
		},
		Layout: LayoutConfig{
			CardWidth:        70,
			CardHeight:       95,
			NarrowBreakpoint: 768,
			Scatter:          ScatterConfig{SpanX: 1500, SpanY: 1000, SpanRotation: 180, Scale: 0.6},
			Line:             LineConfig{Spacing: 80},
			Circle:           CircleConfig{RadiusRatio: 0.35, MaxRadius: 350, OffsetY: -60},
			Arc: ArcConfig{
				Wide:             ArcProfile{RadiusFactor: 1.1, ApexRatio: 0.25, Spread: 130, Scale: 1.8},
				Narrow:           ArcProfile{RadiusFactor: 1.4, ApexRatio: 0.35, Spread: 100, Scale: 1.4},
				BaseHeightFactor: 1.5,
				OffsetY:          -80,
				RotateDivisor:    1000,
				RotationFactor:   1.2,
			},
		},
		Motion: MotionConfig{
			Spring: SpringConfig{Stiffness: 40, Damping: 15, Mass: 1},
		},
	}
}

// ParseMorphConfig 解析 YAML 配置
// 文件中未出现的字段保留默认值
func ParseMorphConfig(data []byte) (*MorphConfig, error) {
	cfg := DefaultMorphConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析形变配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadMorphConfig 从文件加载配置
func LoadMorphConfig(path string) (*MorphConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取形变配置失败: %w", err)
	}
	return ParseMorphConfig(data)
}

// Validate 校验配置
func (c *MorphConfig) Validate() error {
	if c.Scroll.MaxScroll <= 0 {
		return fmt.Errorf("%w: scroll.max_scroll must be positive, got %v", ErrInvalidConfig, c.Scroll.MaxScroll)
	}
	if c.Scroll.PinThreshold < 0 {
		return fmt.Errorf("%w: scroll.pin_threshold must not be negative", ErrInvalidConfig)
	}
	if c.Phase.LineDelay < 0 || c.Phase.CircleDelay < c.Phase.LineDelay {
		return fmt.Errorf("%w: phase delays must satisfy 0 <= line_delay <= circle_delay", ErrInvalidConfig)
	}

	ranges := []struct {
		name    string
		in, out []float64
	}{
		{"morph", c.Signals.MorphInput, c.Signals.MorphOutput},
		{"rotate", c.Signals.RotateInput, c.Signals.RotateOutput},
		{"content", c.Signals.ContentInput, c.Signals.ContentOffset},
	}
	for _, r := range ranges {
		if err := validateRange(r.in, r.out); err != nil {
			return fmt.Errorf("%w: signals.%s: %v", ErrInvalidConfig, r.name, err)
		}
	}

	if err := validateSpring(c.Signals.Spring); err != nil {
		return fmt.Errorf("%w: signals.spring: %v", ErrInvalidConfig, err)
	}
	if err := validateSpring(c.Motion.Spring); err != nil {
		return fmt.Errorf("%w: motion.spring: %v", ErrInvalidConfig, err)
	}
	if c.Layout.Arc.RotateDivisor <= 0 {
		return fmt.Errorf("%w: layout.arc.rotate_divisor must be positive", ErrInvalidConfig)
	}
	if c.Layout.Circle.RadiusRatio < 0 || c.Layout.Circle.MaxRadius < 0 {
		return fmt.Errorf("%w: layout.circle radius must not be negative", ErrInvalidConfig)
	}
	return nil
}

// validateSpring 弹簧必须有刚度和质量，且阻尼比 >= 1（不回弹、不越过目标）
func validateSpring(sp SpringConfig) error {
	if !(sp.Stiffness > 0) || !(sp.Mass > 0) {
		return fmt.Errorf("needs stiffness > 0 and mass > 0, got %v/%v", sp.Stiffness, sp.Mass)
	}
	if ratio := sp.Params().DampingRatio(); !(ratio >= 1) {
		return fmt.Errorf("damping ratio %.3f < 1 would overshoot", ratio)
	}
	return nil
}

// validateRange 输入点至少两个、严格递增，且与输出等长
func validateRange(in, out []float64) error {
	if len(in) < 2 {
		return fmt.Errorf("need at least 2 input stops, got %d", len(in))
	}
	if len(in) != len(out) {
		return fmt.Errorf("input/output length mismatch: %d vs %d", len(in), len(out))
	}
	for i := 1; i < len(in); i++ {
		if in[i] <= in[i-1] {
			return fmt.Errorf("input stops must increase strictly at index %d", i)
		}
	}
	return nil
}

// ArcProfileFor 按容器宽度选择弧形参数
func (l *LayoutConfig) ArcProfileFor(width float64) ArcProfile {
	if l.IsNarrow(width) {
		return l.Arc.Narrow
	}
	return l.Arc.Wide
}

// IsNarrow 容器宽度是否属于窄屏（移动端）
func (l *LayoutConfig) IsNarrow(width float64) bool {
	return width < l.NarrowBreakpoint
}
