package components

// ClickableComponent 标记元素可以被鼠标点击
// 可点击区域就是元素当前在屏幕上的盒子
type ClickableComponent struct {
	IsEnabled bool   // 是否可以被点击
	Action    string // 点击动作，如 "toggle"、"route:lyrics"
}
