package components

// ParallaxComponent data-speed 视差
// Speed 为 1 时与页面同步滚动；小于 1 更慢，大于 1 更快
type ParallaxComponent struct {
	Speed  float64
	Offset float64 // 由 ParallaxSystem 每帧计算的垂直位移
}
