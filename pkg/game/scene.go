package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one full-screen section host (e.g. the landing page with the morph gallery).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，场景需要知道视口尺寸时实现
//
// ebiten 的 Layout 回调即尺寸观察点，SceneManager 会在尺寸变化时转发。
type Resizable interface {
	Resize(width, height int)
}

// Disposable 是一个可选接口，场景持有监听、定时器等资源时实现
//
// SceneManager 切换或关闭场景时调用 Close，之后不会再调用该场景的任何方法。
type Disposable interface {
	Close()
}
