//go:build mobile

package utils

// MouseDragAsTouch 移动端宿主把指针事件合成为鼠标事件，一律按触摸拖拽处理
func MouseDragAsTouch() bool {
	return true
}
