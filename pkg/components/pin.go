package components

// PinComponent 元素的固定状态
//
// Start/End 是固定区间对应的滚动偏移。Active 期间元素停在视口中开始固定时的位置；
// 区间结束后元素整体下移 End-Start，LayoutSystem 在它之后留出同样的间距。
type PinComponent struct {
	Active  bool
	Start   float64
	End     float64
	Spacing float64
}

// Offset 在给定滚动偏移下元素相对布局位置的垂直位移
func (p *PinComponent) Offset(scroll float64) float64 {
	switch {
	case scroll <= p.Start:
		return 0
	case scroll >= p.End:
		return p.End - p.Start
	default:
		return scroll - p.Start
	}
}
