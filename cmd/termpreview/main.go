// termpreview 在终端中预览页面配置
//
// 用法：
//
//	go run ./cmd/termpreview -page data/pages/home.yaml
//
// 方向键 / j k 滚动，空格切换播放，r 重试激活，q 退出。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/vinyl/internal/plugin"
	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/internal/smoother"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/page"
	"github.com/gonewx/vinyl/pkg/term"
)

var (
	pagePath = flag.String("page", config.HomePagePath, "页面配置文件")
	clipDir  = flag.String("clips", "data/models", "模型剪辑目录")
	fps      = flag.Int("fps", 30, "刷新率")
	seed     = flag.Int64("seed", 0, "随机种子，0 表示按时间播种")
	logFile  = flag.String("log", "", "日志输出文件（终端被占用，默认丢弃日志）")
)

func main() {
	flag.Parse()

	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	plugin.Ensure(scrolltrigger.Plugin, smoother.Plugin)

	cfg, err := config.LoadPageConfig(*pagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	// 视口按终端比例换算：每个单元 10x20 像素
	cols, rows := screen.Size()
	opts := page.Options{
		Config: cfg,
		Width:  float64(cols) * 10,
		Height: float64(rows-1) * 20,
		Clips:  page.ClipDir(*clipDir),
	}
	if *seed != 0 {
		opts.Rand = rand.New(rand.NewSource(*seed))
	}

	p, err := page.New(opts)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := p.Enter(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer p.Leave()

	term.NewPreview(screen, p).Run(*fps)
}
