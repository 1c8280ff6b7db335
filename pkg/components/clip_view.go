package components

import "github.com/gonewx/vinyl/internal/clip"

// ClipViewComponent 元素上播放的模型动画
type ClipViewComponent struct {
	Name   string
	Action *clip.Action
	// Scale 把剪辑坐标换算到元素盒子的比例
	Scale float64
	// AutoPause 元素离开视口时暂停动画
	AutoPause bool
}
