package scenes

import (
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/game"
)

// Scene is a type alias for game.Scene.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

// Route 一个页面路由
type Route struct {
	Name string
	Path string // 页面配置文件
}

// Routes 内置页面
var Routes = []Route{
	{Name: "home", Path: config.HomePagePath},
	{Name: "lyrics", Path: config.LyricsPagePath},
}

// PathFor 路由对应的页面配置；未知路由返回 false
func PathFor(route string) (string, bool) {
	for _, r := range Routes {
		if r.Name == route {
			return r.Path, true
		}
	}
	return "", false
}
