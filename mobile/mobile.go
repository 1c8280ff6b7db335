//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包，
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数：
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.vinyl -o build/android/vinyl.aar ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Vinyl.xcframework ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/gonewx/vinyl/pkg/app"
	"github.com/gonewx/vinyl/pkg/embedded"
)

func init() {
	// assetsFS 和 dataFS 在 embed.go 中声明
	embedded.Init(assetsFS, dataFS)

	// 移动端没有命令行参数：恢复上次的页面
	a, err := app.NewApp(app.Config{Verbose: true})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	mobile.SetGame(a)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
