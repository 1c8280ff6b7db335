package components

import "image/color"

// ShapeKind 元素的绘制方式
type ShapeKind int

const (
	// ShapeNone 只参与布局，不绘制（例如分组容器）
	ShapeNone ShapeKind = iota
	// ShapeRect 填充矩形
	ShapeRect
	// ShapeDisc 圆盘（唱片）
	ShapeDisc
	// ShapeLine 水平线
	ShapeLine
	// ShapeText 文本
	ShapeText
	// ShapeClip 模型动画
	ShapeClip
)

// ShapeComponent 绘制参数
type ShapeComponent struct {
	Kind  ShapeKind
	Color color.RGBA
	// Accent 渐变或描边的第二种颜色
	Accent color.RGBA
	// ClassColors 元素带有对应类名时使用的颜色；后出现的类名优先
	ClassColors map[string]color.RGBA
}
