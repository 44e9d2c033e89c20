package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerSample 一帧的指针采样
type PointerSample struct {
	Pressed bool
	X, Y    int
	// TouchID 触摸编号，鼠标为 -1
	TouchID ebiten.TouchID
	IsTouch bool
}

// SamplePointer 采样当前帧的指针
//
// 优先级：正在跟踪的触摸 > 新的触摸 > 鼠标左键（仅 withMouse 时）。
// 跟踪中的触摸消失时返回 Pressed=false，表示这次手势结束。
func SamplePointer(tracked ebiten.TouchID, withMouse bool) PointerSample {
	ids := ebiten.AppendTouchIDs(nil)

	if tracked >= 0 {
		for _, id := range ids {
			if id == tracked {
				x, y := ebiten.TouchPosition(id)
				return PointerSample{Pressed: true, X: x, Y: y, TouchID: id, IsTouch: true}
			}
		}
		return PointerSample{TouchID: tracked, IsTouch: true}
	}

	if pressed := inpututil.AppendJustPressedTouchIDs(nil); len(pressed) > 0 {
		x, y := ebiten.TouchPosition(pressed[0])
		return PointerSample{Pressed: true, X: x, Y: y, TouchID: pressed[0], IsTouch: true}
	}
	if len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		return PointerSample{Pressed: true, X: x, Y: y, TouchID: ids[0], IsTouch: true}
	}

	if withMouse && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return PointerSample{Pressed: true, X: x, Y: y, TouchID: -1}
	}
	return PointerSample{TouchID: -1}
}

// ============================================================================
// 拖拽状态管理器 - 把触摸拖拽转换为 start / move / end 事件
// ============================================================================

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放）
	DragStateEnded
)

// DragInfo 拖拽信息
type DragInfo struct {
	// State 当前拖拽状态
	State DragState
	// StartX, StartY 拖拽起始位置（屏幕坐标）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置（屏幕坐标）
	CurrentX, CurrentY int
	// PreviousY 上一帧的 Y，用于计算逐帧增量
	PreviousY int
	// TouchID 当前跟踪的触摸ID（-1 表示鼠标或无）
	TouchID ebiten.TouchID
	// IsTouchInput 是否为触摸输入（区分触摸和鼠标）
	IsTouchInput bool
}

// DragManager 拖拽管理器
// 跟踪单个触摸/鼠标的拖拽状态；状态转换只依赖采样，便于测试
type DragManager struct {
	info DragInfo
}

// NewDragManager 创建拖拽管理器
func NewDragManager() *DragManager {
	dm := &DragManager{}
	dm.Reset()
	return dm
}

// Update 采样 ebiten 输入并推进状态（每帧调用一次）
// withMouse 为 true 时鼠标左键拖拽也当作触摸
func (dm *DragManager) Update(withMouse bool) {
	tracked := ebiten.TouchID(-1)
	if dm.info.State == DragStateStarted || dm.info.State == DragStateDragging {
		tracked = dm.info.TouchID
	}
	dm.Advance(SamplePointer(tracked, withMouse))
}

// Advance 用一帧采样推进状态
func (dm *DragManager) Advance(s PointerSample) {
	switch dm.info.State {
	case DragStateNone, DragStateEnded:
		if !s.Pressed {
			dm.Reset()
			return
		}
		dm.info = DragInfo{
			State:        DragStateStarted,
			StartX:       s.X,
			StartY:       s.Y,
			CurrentX:     s.X,
			CurrentY:     s.Y,
			PreviousY:    s.Y,
			TouchID:      s.TouchID,
			IsTouchInput: s.IsTouch,
		}

	case DragStateStarted, DragStateDragging:
		if !s.Pressed {
			dm.info.State = DragStateEnded
			dm.info.PreviousY = dm.info.CurrentY
			return
		}
		dm.info.State = DragStateDragging
		dm.info.PreviousY = dm.info.CurrentY
		dm.info.CurrentX, dm.info.CurrentY = s.X, s.Y
	}
}

// Reset 重置拖拽状态
func (dm *DragManager) Reset() {
	dm.info = DragInfo{
		State:   DragStateNone,
		TouchID: -1,
	}
}

// GetState 获取当前拖拽状态
func (dm *DragManager) GetState() DragState {
	return dm.info.State
}

// GetInfo 获取完整拖拽信息
func (dm *DragManager) GetInfo() DragInfo {
	return dm.info
}

// IsDragging 是否正在拖拽
func (dm *DragManager) IsDragging() bool {
	return dm.info.State == DragStateDragging
}

// JustStarted 是否刚开始拖拽（本帧）
func (dm *DragManager) JustStarted() bool {
	return dm.info.State == DragStateStarted
}

// JustEnded 是否刚结束拖拽（本帧）
func (dm *DragManager) JustEnded() bool {
	return dm.info.State == DragStateEnded
}

// Moved 本帧是否有纵向移动
func (dm *DragManager) Moved() bool {
	return dm.info.State == DragStateDragging && dm.info.CurrentY != dm.info.PreviousY
}

// FrameDeltaY 本帧的滚动增量（手指上滑为正）
func (dm *DragManager) FrameDeltaY() int {
	return dm.info.PreviousY - dm.info.CurrentY
}

// GetDragDistance 获取拖拽距离（从起点到当前位置）
func (dm *DragManager) GetDragDistance() (dx, dy int) {
	return dm.info.CurrentX - dm.info.StartX, dm.info.CurrentY - dm.info.StartY
}
