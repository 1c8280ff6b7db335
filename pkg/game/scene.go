package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one routed view (e.g., the home page, the lyrics page).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Mountable 是一个可选接口：场景在成为当前场景时挂载，被切走时卸载
//
// 页面场景在 Enter 中创建全部动画资源，在 Leave 中全部销毁，
// 因此同一个场景可以被反复进入。
type Mountable interface {
	Enter() error
	Leave()
}
