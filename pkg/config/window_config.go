package config

// 窗口与页面布局常量
const (
	// WindowWidth 窗口（视口）宽度
	WindowWidth = 960
	// WindowHeight 窗口（视口）高度
	WindowHeight = 640

	// PageMarginX 页面内容的左右留白
	PageMarginX = 48.0

	// DefaultFontSize 未指定字号时的正文字号
	DefaultFontSize = 18.0

	// LineSpacing 行高相对字号的倍数
	LineSpacing = 1.4

	// ScrollStep 滚轮一格对应的滚动距离
	ScrollStep = 60.0

	// DefaultForeground 未指定颜色的形状和文字使用的颜色
	DefaultForeground = "#e8e6e3"
)

// 页面配置文件路径（相对 data 目录的嵌入路径）
const (
	HomePagePath   = "data/pages/home.yaml"
	LyricsPagePath = "data/pages/lyrics.yaml"
)
