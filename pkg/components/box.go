package components

// BoxComponent 元素在文档坐标系中的盒子
//
// Width/Height/Margin 由页面配置给出，X/Y 由 LayoutSystem 计算。
// Height 为 0 时高度由子元素（或文本行数）撑开。
type BoxComponent struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginBottom float64
	// Inline 为 true 时与前一个兄弟元素排在同一行（拆分文本的片段）
	Inline bool

	// 布局结果（文档坐标，不含滚动）
	X, Y         float64
	LayoutWidth  float64
	LayoutHeight float64
}

// Bottom 盒子下边缘的文档坐标
func (b *BoxComponent) Bottom() float64 {
	return b.Y + b.LayoutHeight
}
