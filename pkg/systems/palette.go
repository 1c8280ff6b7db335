package systems

import (
	"image/color"
	"math"

	"github.com/gonewx/vinyl/pkg/components"
)

// ResolveColor 元素当前的绘制颜色
//
// 带有 ClassColors 中的类名时使用对应颜色（元素类名列表中靠后的优先），
// 然后按 glow 向 Accent 过渡，最后乘以不透明度。
func ResolveColor(shape *components.ShapeComponent, classes []string, glow, opacity float64) color.RGBA {
	c := shape.Color
	for _, class := range classes {
		if cc, ok := shape.ClassColors[class]; ok {
			c = cc
		}
	}
	if glow > 0 && shape.Accent.A > 0 {
		c = mix(c, shape.Accent, clamp01(glow))
	}
	return Fade(c, opacity)
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

// Fade 预乘 alpha 的颜色乘以不透明度
func Fade(c color.RGBA, opacity float64) color.RGBA {
	o := clamp01(opacity)
	scale := func(v uint8) uint8 { return uint8(math.Round(float64(v) * o)) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: scale(c.A)}
}

// TrackY 把滚动偏移换算为右侧滚动轨道上的 y 坐标
func TrackY(offset, maxScroll, height float64) float64 {
	if maxScroll <= 0 {
		return 0
	}
	return clamp01(offset/maxScroll) * height
}
