package components

// StyleComponent 可被时间线驱动的视觉属性
//
// 实现 timeline.Target：已知属性直接映射到字段，
// 其余属性名存放在 Extra 中，首次读取时为 0。
type StyleComponent struct {
	Opacity  float64
	X        float64 // 相对布局位置的水平偏移
	Y        float64 // 相对布局位置的垂直偏移
	Rotation float64 // 角度
	Scale    float64
	Glow     float64 // 0~1，发光强度

	Extra map[string]float64
}

// NewStyleComponent 返回默认样式（完全不透明、原始大小）
func NewStyleComponent() *StyleComponent {
	return &StyleComponent{Opacity: 1, Scale: 1}
}

// Get 读取属性
func (s *StyleComponent) Get(prop string) (float64, bool) {
	switch prop {
	case "opacity", "autoAlpha":
		return s.Opacity, true
	case "x":
		return s.X, true
	case "y":
		return s.Y, true
	case "rotation", "rotate":
		return s.Rotation, true
	case "scale":
		return s.Scale, true
	case "glow":
		return s.Glow, true
	}
	v, ok := s.Extra[prop]
	return v, ok
}

// Set 写入属性
func (s *StyleComponent) Set(prop string, value float64) {
	switch prop {
	case "opacity", "autoAlpha":
		s.Opacity = value
	case "x":
		s.X = value
	case "y":
		s.Y = value
	case "rotation", "rotate":
		s.Rotation = value
	case "scale":
		s.Scale = value
	case "glow":
		s.Glow = value
	default:
		if s.Extra == nil {
			s.Extra = make(map[string]float64)
		}
		s.Extra[prop] = value
	}
}
