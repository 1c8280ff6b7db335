// Package smoother 页面级平滑滚动与 data-speed 视差
//
// 播放头与滚动条之间加一层临界阻尼弹簧：输入事件只设置目标偏移，
// 每帧 Update 让实际偏移向目标收敛，不会越过目标。
package smoother

import (
	"errors"
	"log"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/gonewx/vinyl/internal/plugin"
)

// PluginName 插件名
const PluginName = "ScrollSmoother"

// Plugin 创建 Smoother 之前需要通过 plugin.Ensure 注册
var Plugin = plugin.Plugin{
	Name: PluginName,
	Init: func() {
		log.Printf("[Smoother] plugin initialized")
	},
}

// ErrPluginNotRegistered 未注册插件
var ErrPluginNotRegistered = errors.New("smoother plugin not registered")

const (
	// settleDistance 距离目标小于该值且速度足够小时直接对齐
	settleDistance = 0.05
	settleVelocity = 0.5
	// dampingRatio 1.0 为临界阻尼
	dampingRatio = 1.0
)

// Smoother 平滑滚动
type Smoother struct {
	// Smooth 追上目标大约需要的秒数，<= 0 表示不平滑
	Smooth float64
	// Effects 是否启用 data-speed 视差
	Effects bool

	target float64
	pos    float64
	vel    float64

	spring   harmonica.Spring
	springDT float64
}

// New 创建平滑器
func New(smooth float64, effects bool) (*Smoother, error) {
	if !plugin.Registered(PluginName) {
		return nil, ErrPluginNotRegistered
	}
	return &Smoother{Smooth: smooth, Effects: effects}, nil
}

// frequency 由 Smooth 换算的角频率；临界阻尼下约 4/ω 秒后误差低于 10%
func (s *Smoother) frequency() float64 {
	return 4 / s.Smooth
}

// SetTarget 设置目标偏移（输入事件时调用）
func (s *Smoother) SetTarget(y float64) {
	s.target = y
}

// Target 目标偏移
func (s *Smoother) Target() float64 {
	return s.target
}

// Jump 直接跳到 y（例如切换路由时回到顶部）
func (s *Smoother) Jump(y float64) {
	s.target = y
	s.pos = y
	s.vel = 0
}

// Update 每帧推进一次
func (s *Smoother) Update(dt float64) {
	if s.Smooth <= 0 || dt <= 0 {
		s.pos = s.target
		s.vel = 0
		return
	}
	if dt != s.springDT {
		s.spring = harmonica.NewSpring(dt, s.frequency(), dampingRatio)
		s.springDT = dt
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if math.Abs(s.target-s.pos) < settleDistance && math.Abs(s.vel) < settleVelocity {
		s.pos = s.target
		s.vel = 0
	}
}

// Offset 当前实际偏移
func (s *Smoother) Offset() float64 {
	return s.pos
}

// Velocity 当前速度（像素/秒）
func (s *Smoother) Velocity() float64 {
	return s.vel
}

// Settled 是否已经停在目标上
func (s *Smoother) Settled() bool {
	return s.pos == s.target && s.vel == 0
}

// Parallax data-speed 视差的位移
//
// speed = 1 时元素随页面正常滚动（位移 0），speed < 1 时元素滞后，
// speed > 1 时元素超前。elementTop 是位移为 0 时的滚动偏移（锚点）。
func Parallax(speed, elementTop, scroll float64) float64 {
	return (1 - speed) * (scroll - elementTop)
}

// ParallaxAt 关闭 Effects 时不产生位移
func (s *Smoother) ParallaxAt(speed, elementTop float64) float64 {
	if !s.Effects {
		return 0
	}
	return Parallax(speed, elementTop, s.pos)
}
