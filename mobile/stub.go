//go:build !mobile

// Package mobile 的桌面端占位：真正的入口在 mobile.go，仅在 -tags mobile 时编译
package mobile

// Dummy 让包在普通构建中也能被引用
func Dummy() {}
