// Package plugin 管理进程级的插件注册
//
// 插件（如滚动触发器、平滑滚动）需要在创建任何时间线之前注册一次。
// 注册是显式调用的，不依赖包导入的副作用；Ensure 可以被安全地重复调用。
package plugin

import (
	"log"
	"sync"
)

// Plugin 插件描述
type Plugin struct {
	// Name 插件名称，作为注册表的键
	Name string
	// Init 首次注册时执行的初始化过程，可为 nil
	Init func()
}

var (
	mu         sync.Mutex
	registered = map[string]bool{}
)

// Ensure 确保插件已注册
// 每个名称的 Init 在进程生命周期内只执行一次
func Ensure(plugins ...Plugin) {
	mu.Lock()
	defer mu.Unlock()

	for _, p := range plugins {
		if registered[p.Name] {
			continue
		}
		if p.Init != nil {
			p.Init()
		}
		registered[p.Name] = true
		log.Printf("[Plugin] registered %s", p.Name)
	}
}

// Registered 返回插件是否已注册
func Registered(name string) bool {
	mu.Lock()
	defer mu.Unlock()
	return registered[name]
}

// Reset 清空注册表
// 仅供测试使用
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registered = map[string]bool{}
}
