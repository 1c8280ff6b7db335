package main

import (
	"flag"
	"log"

	"github.com/gonewx/vinyl/pkg/app"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose = flag.Bool("verbose", false, "显示详细调试信息")
	route   = flag.String("route", "", "启动页面（home / lyrics），为空则恢复上次的页面")
	page    = flag.String("page", "", "直接加载指定的页面配置文件（如 data/pages/home.yaml）")
	seed    = flag.Int64("seed", 0, "随机种子，0 表示按时间播种")
	mute    = flag.Bool("mute", false, "禁用音频输出")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	// assetsFS 和 dataFS 在 embed.go 中声明
	embedded.Init(assetsFS, dataFS)

	a, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Route:   *route,
		Page:    *page,
		Seed:    *seed,
		Mute:    *mute,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer a.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Vinyl - 滚动动画演示")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
