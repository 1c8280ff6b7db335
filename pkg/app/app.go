// Package app 提供应用的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：插件注册、资源预加载、路由注册。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"

	"github.com/gonewx/vinyl/internal/plugin"
	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/internal/smoother"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/game"
	"github.com/gonewx/vinyl/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// appName gdata 存储使用的应用名
const appName = "vinyl"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Route 启动页面，为空则恢复上次的页面或使用 home
	Route string
	// Page 直接加载指定的页面配置文件（覆盖 Route）
	Page string
	// Seed 随机种子，0 表示按时间播种
	Seed int64
	// Mute 不创建音频上下文
	Mute bool
}

// App 应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	audio        *game.AudioManager
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 插件必须在任何页面创建之前注册
	plugin.Ensure(scrolltrigger.Plugin, smoother.Plugin)

	var audioContext *audio.Context
	if !cfg.Mute {
		audioContext = audio.NewContext(48000)
	}
	resources := game.NewResourceManager(audioContext)

	pages := []string{config.HomePagePath, config.LyricsPagePath}
	if cfg.Page != "" {
		pages = []string{cfg.Page}
	}
	if err := resources.Preload(context.Background(), pages...); err != nil {
		return nil, fmt.Errorf("资源预加载失败: %w", err)
	}

	storage, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: persistent storage unavailable: %v", err)
		storage = nil
	}
	settings := game.NewSettingsManager(storage)
	audioManager := game.NewAudioManager(resources, settings)

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	sceneManager := game.NewSceneManager()
	deps := scenes.Deps{
		Resources: resources,
		Audio:     audioManager,
		Settings:  settings,
		Scenes:    sceneManager,
		Rand:      rng,
	}
	for _, r := range scenes.Routes {
		sceneManager.Register(r.Name, scenes.Factory(deps))
	}

	start := startRoute(cfg, settings)
	if cfg.Page != "" {
		pageCfg, err := resources.LoadPage(cfg.Page)
		if err != nil {
			return nil, err
		}
		path := cfg.Page
		start = pageCfg.Route
		sceneManager.Register(start, func(string) (game.Scene, error) {
			return scenes.NewPageScene(deps, path)
		})
	}
	sceneManager.OnNavigate = func(route string) {
		settings.SetLastRoute(route)
	}

	if err := sceneManager.Navigate(start); err != nil {
		return nil, err
	}
	log.Printf("[App] Starting route: %s", start)

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		audio:        audioManager,
		verbose:      cfg.Verbose,
	}, nil
}

// startRoute 命令行参数优先，其次是上次退出时的页面
func startRoute(cfg Config, settings *game.SettingsManager) string {
	if cfg.Route != "" {
		return cfg.Route
	}
	if last := settings.GetSettings().LastRoute; last != "" {
		if _, ok := scenes.PathFor(last); ok {
			return last
		}
	}
	return "home"
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 退出全屏后需要等待几帧才能正确设置窗口大小
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// Close 卸载当前页面、暂停音频并保存设置
func (a *App) Close() {
	a.sceneManager.Close()
	a.audio.PauseAll()
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
