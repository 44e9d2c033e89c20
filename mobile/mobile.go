//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包，
// 配置和卡组使用内置的 YAML。
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.aeromorph -o build/android/aeromorph.aar -v ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Aeromorph.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/aeromorph/pkg/app"
	"github.com/decker502/aeromorph/pkg/logging"
)

func init() {
	logger, err := logging.New(false)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	morphApp, err := app.NewApp(app.Config{Logger: logger})
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	mobile.SetGame(morphApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
