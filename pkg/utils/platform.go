//go:build !mobile

package utils

import "os"

// TouchEmulateEnv 置为 "1" 时桌面端把鼠标左键拖拽当作触摸
const TouchEmulateEnv = "AEROMORPH_TOUCH_EMULATE"

// MouseDragAsTouch 鼠标左键拖拽是否进入触摸滚动路径（HandleTouchStart/Move/End）
//
// 桌面端默认只有滚轮和按键驱动虚拟滚动，鼠标拖拽不滚动；
// 设置 AEROMORPH_TOUCH_EMULATE=1 后拖拽按手指处理，在桌面上调试逐帧让出和触摸惯性丢弃。
func MouseDragAsTouch() bool {
	return os.Getenv(TouchEmulateEnv) == "1"
}
