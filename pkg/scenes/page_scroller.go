package scenes

import (
	"github.com/decker502/aeromorph/pkg/utils"
)

// 页面区块高度，以视口高度为单位
const (
	heroScreens    = 1.0
	sectionScreens = 1.0
	footerScreens  = 0.4
)

// PageScroller 落地页的原生滚动模型
//
// 页面自上而下为：首屏、形变区块、页脚。引擎不拦截的滚动增量在这里推进页面偏移；
// 形变区块顶边相对视口顶部的位置就是引擎的区块探针。
type PageScroller struct {
	viewportHeight float64
	offset         float64
	entered        bool
}

// NewPageScroller 创建页面滚动模型
func NewPageScroller() *PageScroller {
	return &PageScroller{}
}

// Resize 更新视口高度，偏移按新的页面长度重新夹紧
func (p *PageScroller) Resize(height float64) {
	p.viewportHeight = utils.Finite(height)
	p.offset = utils.Clamp(p.offset, 0, p.MaxOffset())
}

// ViewportHeight 视口高度
func (p *PageScroller) ViewportHeight() float64 {
	return p.viewportHeight
}

// Offset 当前原生滚动偏移
func (p *PageScroller) Offset() float64 {
	return p.offset
}

// PageHeight 页面总高度
func (p *PageScroller) PageHeight() float64 {
	return (heroScreens + sectionScreens + footerScreens) * p.viewportHeight
}

// MaxOffset 最大滚动偏移
func (p *PageScroller) MaxOffset() float64 {
	return p.PageHeight() - p.viewportHeight
}

// Scroll 原生滚动，返回实际移动的距离
func (p *PageScroller) Scroll(delta float64) float64 {
	next := utils.Clamp(p.offset+delta, 0, p.MaxOffset())
	moved := next - p.offset
	p.offset = next
	return moved
}

// HeroTop 首屏顶边的屏幕 Y
func (p *PageScroller) HeroTop() float64 {
	return -p.offset
}

// SectionTop 形变区块顶边的屏幕 Y
func (p *PageScroller) SectionTop() float64 {
	return heroScreens*p.viewportHeight - p.offset
}

// FooterTop 页脚顶边的屏幕 Y
func (p *PageScroller) FooterTop() float64 {
	return p.SectionTop() + sectionScreens*p.viewportHeight
}

// SectionProbe 引擎的区块探针，视口未测量时报告未测量
func (p *PageScroller) SectionProbe() (float64, bool) {
	if p.viewportHeight <= 0 {
		return 0, false
	}
	return p.SectionTop(), true
}

// CheckEnter 区块顶边第一次到达视口顶部时返回 true，之后一直返回 false
func (p *PageScroller) CheckEnter() bool {
	if p.entered || p.viewportHeight <= 0 {
		return false
	}
	if p.SectionTop() <= 0 {
		p.entered = true
		return true
	}
	return false
}
