package morph

import "github.com/decker502/aeromorph/pkg/components"

// CardSnapshot 单张卡片的导出状态
type CardSnapshot struct {
	Index  int             `yaml:"index"`
	Title  string          `yaml:"title"`
	Target components.Pose `yaml:"target"`
	Pose   components.Pose `yaml:"pose"`
}

// Snapshot 引擎某一时刻的可序列化快照，dump 命令输出它
type Snapshot struct {
	Phase          string         `yaml:"phase"`
	Scroll         float64        `yaml:"scroll"`
	Width          float64        `yaml:"width"`
	Height         float64        `yaml:"height"`
	Morph          float64        `yaml:"morph"`
	Rotate         float64        `yaml:"rotate"`
	ContentOpacity float64        `yaml:"content_opacity"`
	HintOpacity    float64        `yaml:"hint_opacity"`
	Cards          []CardSnapshot `yaml:"cards"`
}

// Snapshot 导出当前状态
func (e *Engine) Snapshot() Snapshot {
	signals := e.Signals()
	vp := e.Viewport()
	snap := Snapshot{
		Phase:          e.Phase().String(),
		Scroll:         e.ScrollPosition(),
		Width:          vp.Width,
		Height:         vp.Height,
		Morph:          signals.Morph,
		Rotate:         signals.Rotate,
		ContentOpacity: signals.ContentOpacity,
		HintOpacity:    signals.HintOpacity,
	}

	targets := e.Targets()
	poses := e.Poses()
	for i, card := range e.Cards() {
		if i >= len(targets) {
			break
		}
		snap.Cards = append(snap.Cards, CardSnapshot{
			Index:  i,
			Title:  card.Title,
			Target: targets[i],
			Pose:   poses[i],
		})
	}
	return snap
}

// Settle 以固定步长推进 seconds 秒
func (e *Engine) Settle(seconds, step float64) {
	if step <= 0 {
		step = 1.0 / 60
	}
	for elapsed := 0.0; elapsed < seconds; elapsed += step {
		e.Update(step)
	}
}
