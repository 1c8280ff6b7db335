// Package ease 提供按名称查找的缓动曲线
//
// 缓动函数把归一化进度 p ∈ [0, 1] 映射为缓动后的进度 ∈ [0, 1]。
// 曲线本身来自 gween 的 ease 包，这里只负责命名（沿用网页动画的命名习惯，
// 如 "power2.out"、"back.inOut"、"none"）和端点修正。
package ease

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	gease "github.com/tanema/gween/ease"
)

// Func 缓动函数：输入归一化进度，返回缓动后的进度
type Func func(p float64) float64

// ErrUnknownEase 未注册的缓动名称
var ErrUnknownEase = errors.New("unknown ease")

// Default 时间线未指定缓动时使用的名称
const Default = "power1.out"

var (
	mu       sync.RWMutex
	registry = map[string]Func{}
)

func init() {
	// 家族名 -> in / out / inOut 三个变体
	families := map[string][3]gease.TweenFunc{
		"power1":  {gease.InQuad, gease.OutQuad, gease.InOutQuad},
		"quad":    {gease.InQuad, gease.OutQuad, gease.InOutQuad},
		"power2":  {gease.InCubic, gease.OutCubic, gease.InOutCubic},
		"cubic":   {gease.InCubic, gease.OutCubic, gease.InOutCubic},
		"power3":  {gease.InQuart, gease.OutQuart, gease.InOutQuart},
		"quart":   {gease.InQuart, gease.OutQuart, gease.InOutQuart},
		"power4":  {gease.InQuint, gease.OutQuint, gease.InOutQuint},
		"quint":   {gease.InQuint, gease.OutQuint, gease.InOutQuint},
		"sine":    {gease.InSine, gease.OutSine, gease.InOutSine},
		"expo":    {gease.InExpo, gease.OutExpo, gease.InOutExpo},
		"circ":    {gease.InCirc, gease.OutCirc, gease.InOutCirc},
		"back":    {gease.InBack, gease.OutBack, gease.InOutBack},
		"elastic": {gease.InElastic, gease.OutElastic, gease.InOutElastic},
		"bounce":  {gease.InBounce, gease.OutBounce, gease.InOutBounce},
	}

	for name, fns := range families {
		registry[name+".in"] = wrap(fns[0])
		registry[name+".out"] = wrap(fns[1])
		registry[name+".inout"] = wrap(fns[2])
		// 裸名称等价于 .out
		registry[name] = registry[name+".out"]
	}

	registry["none"] = linear
	registry["linear"] = linear
	registry["power0"] = linear
	registry["power0.in"] = linear
	registry["power0.out"] = linear
	registry["power0.inout"] = linear
}

// wrap 把 gween 的 (t, b, c, d) 形式转换为归一化进度函数，并保证端点精确
// gween 以 float32 计算，中间值的精度约为 1e-7
func wrap(fn gease.TweenFunc) Func {
	return func(p float64) float64 {
		if p <= 0 {
			return 0
		}
		if p >= 1 {
			return 1
		}
		return float64(fn(float32(p), 0, 1, 1))
	}
}

// linear 直接以 float64 计算，保证线性插值在任意进度都精确
func linear(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}

// Linear 线性缓动
func Linear(p float64) float64 {
	return linear(p)
}

// Register 注册（或覆盖）一个自定义缓动
// 名称不区分大小写；输入会先被钳制到 [0, 1]
func Register(name string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	registry[normalize(name)] = func(p float64) float64 {
		return fn(math.Max(0, math.Min(1, p)))
	}
}

// Parse 根据名称返回缓动函数
// 空字符串返回 Default 对应的曲线
func Parse(name string) (Func, error) {
	if name == "" {
		name = Default
	}
	mu.RLock()
	fn, ok := registry[normalize(name)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
	}
	return fn, nil
}

// MustParse 与 Parse 相同，但名称未知时 panic
// 仅用于包级常量式的初始化
func MustParse(name string) Func {
	fn, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return fn
}

// Names 返回所有已注册的名称（无序）
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
