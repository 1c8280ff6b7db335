package scrolltrigger

import (
	"errors"
	"log"

	"github.com/gonewx/vinyl/internal/plugin"
)

// PluginName 插件名
const PluginName = "ScrollTrigger"

// Plugin 在创建任何映射器之前通过 plugin.Ensure 注册
var Plugin = plugin.Plugin{
	Name: PluginName,
	Init: func() {
		log.Printf("[ScrollTrigger] plugin initialized")
	},
}

var (
	// ErrPluginNotRegistered 未注册插件就绑定了触发区域
	ErrPluginNotRegistered = errors.New("scrolltrigger plugin not registered")
	// ErrBadBoundary 边界表达式无法解析
	ErrBadBoundary = errors.New("bad boundary expression")
)
