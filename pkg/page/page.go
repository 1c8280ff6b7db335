// Package page 把页面配置装配为可运行的滚动动画页面
//
// Page 不依赖任何界面工具包：它拥有文档、tick 循环、播放控制和两级生命周期
// （外壳：平滑滚动；结构：时间线、触发区域、递归效果）。桌面场景和终端预览
// 都只是在它之上的表现层。
package page

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/gonewx/vinyl/internal/clip"
	"github.com/gonewx/vinyl/internal/effect"
	"github.com/gonewx/vinyl/internal/engine"
	"github.com/gonewx/vinyl/internal/lifecycle"
	"github.com/gonewx/vinyl/internal/playback"
	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/internal/timeline"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/dom"
	"github.com/gonewx/vinyl/pkg/ecs"
	"github.com/gonewx/vinyl/pkg/systems"
)

// ClipSource 按名字提供模型动画剪辑
type ClipSource interface {
	Clip(name string) (*clip.Clip, error)
}

// ClipDir 从磁盘目录读取 "<name>.clip"，供不带嵌入资源的命令行工具使用
type ClipDir string

// Clip 读取并解析剪辑文件
func (d ClipDir) Clip(name string) (*clip.Clip, error) {
	return clip.ParseClipFile(filepath.Join(string(d), name+".clip"))
}

// Options 创建页面的参数
type Options struct {
	Config *config.PageConfig
	// Width/Height 视口尺寸，0 时使用窗口常量
	Width, Height float64
	// Clips 模型剪辑来源；为 nil 时模型元素保持静止
	Clips ClipSource
	// Media 媒体元素；为 nil 时播放控制只驱动时间线
	Media playback.Media
	// Rand 随机交错与发光效果的随机源；为 nil 时按时间播种
	Rand *rand.Rand
	// ReducedMotion 关闭平滑滚动、视差和递归效果
	ReducedMotion bool
	// Navigate 处理 "route:<name>" 点击
	Navigate func(route string)
}

// Page 一个可运行的页面
type Page struct {
	cfg  *config.PageConfig
	opts Options
	rng  *rand.Rand

	doc      *dom.Document
	ticker   *engine.Ticker
	mixer    *clip.Mixer
	playback *playback.Controller

	layout   *systems.LayoutSystem
	scroll   *systems.ScrollSystem
	pins     *systems.PinSystem
	parallax *systems.ParallaxSystem
	clips    *systems.ClipSystem

	shell     *lifecycle.Manager
	structure *lifecycle.Manager
	entered   bool

	// 当前结构激活创建的资源
	triggers  *scrolltrigger.Manager
	timelines map[string]*timeline.Timeline
	effects   []*effect.Recursive
}

// New 创建页面并构建文档；动画结构在 Enter 时才创建
func New(opts Options) (*Page, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("page: config is required")
	}
	if opts.Width == 0 {
		opts.Width = config.WindowWidth
	}
	if opts.Height == 0 {
		opts.Height = config.WindowHeight
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	p := &Page{
		cfg:       opts.Config,
		opts:      opts,
		rng:       rng,
		doc:       dom.NewDocument(ecs.NewEntityManager(), opts.Width, opts.Height),
		ticker:    engine.NewTicker(),
		mixer:     clip.NewMixer(),
		timelines: make(map[string]*timeline.Timeline),
	}

	if err := p.buildElements(p.cfg.Elements, dom.Root); err != nil {
		return nil, fmt.Errorf("page %s: %w", p.cfg.Route, err)
	}

	playing := false
	if pb := p.cfg.Playback; pb != nil {
		playing = pb.Playing
	}
	p.playback = playback.New(playing)

	p.layout = systems.NewLayoutSystem(p.doc)
	p.scroll = systems.NewScrollSystem(p.doc)
	p.pins = systems.NewPinSystem(p.doc)
	p.parallax = systems.NewParallaxSystem(p.doc)
	p.clips = systems.NewClipSystem(p.doc, p.mixer)

	// 页面级的 tick 条目：滚动采样在所有映射器之前，表现同步在所有推进之后
	p.ticker.AddSampler("scroll", p.scroll.Update)
	p.ticker.AddHook("playback", func(float64) { p.playback.Sync() })
	p.ticker.AddHook("pins", func(float64) { p.pins.Update() })
	p.ticker.AddHook("parallax", func(float64) { p.parallax.Update() })
	p.ticker.AddHook("clips", p.clips.Update)

	p.shell = lifecycle.New(p.cfg.Route+"/smoother", p.setupShell)
	p.structure = lifecycle.New(p.cfg.Route, p.setupStructure)

	if p.cfg.Compat.RebuildOnToggle {
		// 兼容旧行为：播放状态也是结构依赖，每次切换都整体重建
		p.playback.OnChange(func(bool) {
			if !p.entered {
				return
			}
			if err := p.structure.Update(p.structureDeps()...); err != nil {
				log.Printf("[Page] %s: rebuild after toggle failed: %v", p.cfg.Route, err)
			}
		})
	}

	p.layout.Update()
	return p, nil
}

// structureDeps 结构激活所依赖的外部状态
func (p *Page) structureDeps() []any {
	if p.cfg.Compat.RebuildOnToggle {
		return []any{p.cfg.Route, p.playback.IsPlaying()}
	}
	return []any{p.cfg.Route}
}

// Enter 视图挂载：先激活外壳，再激活动画结构
func (p *Page) Enter() error {
	p.entered = true
	if err := p.shell.Activate(p.cfg.Route); err != nil {
		return err
	}
	p.layout.Update()
	return p.structure.Activate(p.structureDeps()...)
}

// Leave 视图卸载：暂停播放并销毁全部动画资源
func (p *Page) Leave() {
	p.entered = false
	p.playback.SetPlaying(false)
	p.structure.Teardown()
	p.shell.Teardown()
}

// Refresh 外部条件变化后重试激活（例如缺失的元素已经出现）
// 依赖未变化且已激活时什么也不做
func (p *Page) Refresh() error {
	if !p.entered {
		return nil
	}
	if p.structure.Active() {
		return p.structure.Update(p.structureDeps()...)
	}
	return p.structure.Activate(p.structureDeps()...)
}

// Tick 推进一帧：先布局，再按 采样 -> 推进 -> 表现 的顺序运行
func (p *Page) Tick(dt float64) {
	p.layout.Update()
	p.ticker.Tick(dt)
}

// Toggle 切换播放状态
func (p *Page) Toggle() bool {
	return p.playback.Toggle()
}

func (p *Page) Config() *config.PageConfig       { return p.cfg }
func (p *Page) Route() string                    { return p.cfg.Route }
func (p *Page) Document() *dom.Document          { return p.doc }
func (p *Page) Ticker() *engine.Ticker           { return p.ticker }
func (p *Page) Playback() *playback.Controller   { return p.playback }
func (p *Page) Scroll() *systems.ScrollSystem    { return p.scroll }
func (p *Page) Mixer() *clip.Mixer               { return p.mixer }
func (p *Page) Triggers() *scrolltrigger.Manager { return p.triggers }
func (p *Page) Effects() []*effect.Recursive     { return p.effects }

// Active 动画结构是否已激活
func (p *Page) Active() bool { return p.structure.Active() }

// Generation 结构激活的次数
func (p *Page) Generation() int { return p.structure.Generation() }

// Timeline 当前激活中的命名时间线
func (p *Page) Timeline(name string) *timeline.Timeline {
	return p.timelines[name]
}
