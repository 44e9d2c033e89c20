package components

import "github.com/decker502/aeromorph/pkg/config"

// CardComponent 卡片的静态信息
// 卡片本身没有可变状态，所有位置每帧由阶段、滚动值、容器尺寸和索引推导
type CardComponent struct {
	Index int
	Card  config.Card
}

// ScatterComponent 散落位姿
// 引擎挂载时随机生成一次，之后所有引用散落位置的阶段都复用它
type ScatterComponent struct {
	Pose Pose
}
