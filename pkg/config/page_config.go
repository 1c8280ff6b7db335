package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/pkg/components"
)

// ErrInvalidPage 页面配置不合法
var ErrInvalidPage = errors.New("invalid page config")

// PageConfig 一个页面（路由）的完整定义
type PageConfig struct {
	Route string `yaml:"route"` // 路由名，如 "home"
	Title string `yaml:"title"` // 窗口标题
	// Scope 动画的容器选择器；激活时找不到容器则整个激活被中止
	Scope      string `yaml:"scope"`
	Background string `yaml:"background"` // 背景色 "#rrggbb"

	Smoother SmootherConfig `yaml:"smoother"`
	Compat   CompatConfig   `yaml:"compat"`

	Elements  []ElementConfig  `yaml:"elements"`
	Timelines []TimelineConfig `yaml:"timelines"`
	Triggers  []TriggerConfig  `yaml:"triggers"`
	Effects   []EffectConfig   `yaml:"effects"`
	Playback  *PlaybackConfig  `yaml:"playback"` // 可选：唱片播放控制
}

// SmootherConfig 页面平滑滚动
type SmootherConfig struct {
	Smooth  float64 `yaml:"smooth"`  // 追赶滚动目标所需的大致秒数，0 为不平滑
	Effects bool    `yaml:"effects"` // 是否启用 speed 视差
}

// CompatConfig 兼容旧行为的开关
type CompatConfig struct {
	// RebuildOnToggle 为 true 时每次切换播放状态都重建全部动画结构
	RebuildOnToggle bool `yaml:"rebuildOnToggle"`
}

// ElementConfig 页面元素，按文档顺序纵向排布
type ElementConfig struct {
	Tag     string   `yaml:"tag"`     // 标签名，默认 "div"
	ID      string   `yaml:"id"`      // 元素 id
	Classes []string `yaml:"classes"` // 类名列表
	Shape   string   `yaml:"shape"`   // none|rect|disc|line|text|clip，默认 none

	Text     string  `yaml:"text"`
	FontSize float64 `yaml:"fontSize"`
	Split    string  `yaml:"split"` // chars|words|lines，空表示不拆分

	Width        float64 `yaml:"width"`  // 0 表示撑满父元素
	Height       float64 `yaml:"height"` // 0 表示由内容决定
	MarginTop    float64 `yaml:"marginTop"`
	MarginBottom float64 `yaml:"marginBottom"`
	Inline       bool    `yaml:"inline"`

	Color       string            `yaml:"color"`
	Accent      string            `yaml:"accent"`
	ClassColors map[string]string `yaml:"classColors"` // 类名 -> 颜色
	Opacity     *float64          `yaml:"opacity"`     // 初始不透明度

	Speed float64 `yaml:"speed"` // data-speed 视差，0 表示不参与

	Clip      string  `yaml:"clip"`      // 模型动画剪辑名
	ClipScale float64 `yaml:"clipScale"` // 默认 1
	ClipLoop  string  `yaml:"clipLoop"`  // repeat|once，默认 repeat
	ClipClamp bool    `yaml:"clipClamp"` // 播放结束时停在最后一帧

	Click string `yaml:"click"` // 点击动作：toggle 或 route:<name>

	Children []ElementConfig `yaml:"children"`
}

// TimelineConfig 一条时间线
type TimelineConfig struct {
	Name        string         `yaml:"name"`
	Paused      bool           `yaml:"paused"`
	Repeat      int            `yaml:"repeat"` // -1 为无限
	Yoyo        bool           `yaml:"yoyo"`
	RepeatDelay float64        `yaml:"repeatDelay"`
	Defaults    DefaultsConfig `yaml:"defaults"`
	Labels      []LabelConfig  `yaml:"labels"`
	Tweens      []TweenConfig  `yaml:"tweens"`
}

// DefaultsConfig 时间线内片段的默认值
type DefaultsConfig struct {
	Ease     string  `yaml:"ease"`
	Duration float64 `yaml:"duration"`
}

// LabelConfig 命名标签
type LabelConfig struct {
	Name     string `yaml:"name"`
	Position string `yaml:"position"`
}

// TweenConfig 一次 add 调用
type TweenConfig struct {
	Targets  StringList        `yaml:"targets"`
	To       map[string]string `yaml:"to"`
	From     map[string]string `yaml:"from"`
	Duration float64           `yaml:"duration"`
	Set      bool              `yaml:"set"` // 立即设置（时长为 0）
	Ease     string            `yaml:"ease"`
	Stagger  *StaggerConfig    `yaml:"stagger"`
	Position string            `yaml:"position"`
}

// StaggerConfig 交错；YAML 中可以直接写数字（等价于 each）
type StaggerConfig struct {
	Each   float64 `yaml:"each"`
	Amount float64 `yaml:"amount"`
	Order  string  `yaml:"from"` // sequential|random
}

// UnmarshalYAML 支持 `stagger: 0.1` 的简写
func (s *StaggerConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		v, err := strconv.ParseFloat(value.Value, 64)
		if err != nil {
			return fmt.Errorf("stagger: %w", err)
		}
		*s = StaggerConfig{Each: v}
		return nil
	}
	type plain StaggerConfig
	return value.Decode((*plain)(s))
}

// StringList 单个字符串或字符串列表
type StringList []string

// UnmarshalYAML 支持 `targets: ".a"` 和 `targets: [".a", ".b"]`
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = StringList{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*l = list
	return nil
}

// TriggerConfig 滚动触发区域
type TriggerConfig struct {
	ID            string              `yaml:"id"`
	Target        string              `yaml:"target"`
	Timeline      string              `yaml:"timeline"` // 可选：绑定的时间线名
	Start         string              `yaml:"start"`
	End           string              `yaml:"end"`
	Scrub         scrolltrigger.Scrub `yaml:"scrub"` // false|true|秒数
	Pin           bool                `yaml:"pin"`
	ToggleActions string              `yaml:"toggleActions"`
	Thresholds    []float64           `yaml:"thresholds"`
	Markers       bool                `yaml:"markers"`
	ToggleClass   []ClassRuleConfig   `yaml:"toggleClass"`
}

// ClassRuleConfig 把区域事件映射为元素类名
type ClassRuleConfig struct {
	Target string `yaml:"target"` // 默认为触发区域的目标
	Class  string `yaml:"class"`
	// When active：区域内添加，离开移除；threshold：越过 At 时添加，回退时移除
	When string  `yaml:"when"`
	At   float64 `yaml:"at"`
}

// EffectConfig 递归发光效果
type EffectConfig struct {
	Name     string            `yaml:"name"`
	Pool     string            `yaml:"pool"` // 候选元素选择器
	Pick     int               `yaml:"pick"`
	Props    map[string]string `yaml:"props"`
	Duration float64           `yaml:"duration"`
	Hold     float64           `yaml:"hold"`
	Delay    float64           `yaml:"delay"`
	Ease     string            `yaml:"ease"`
}

// PlaybackConfig 唱片播放控制
type PlaybackConfig struct {
	Timeline string `yaml:"timeline"` // 循环转动的时间线
	Media    string `yaml:"media"`    // 音频资源路径，空表示没有媒体元素
	Toggle   string `yaml:"toggle"`   // 必需的开关元素选择器
	Playing  bool   `yaml:"playing"`  // 初始状态
	Class    string `yaml:"class"`    // 播放时加在开关元素上的类名
}

// LoadPageConfig 从文件加载页面配置
func LoadPageConfig(path string) (*PageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page config %s: %w", path, err)
	}
	cfg, err := ParsePageConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParsePageConfig 解析并校验页面配置
func ParsePageConfig(data []byte) (*PageConfig, error) {
	var cfg PageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse page YAML: %w", err)
	}
	applyPageDefaults(&cfg)
	if err := validatePageConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyPageDefaults(cfg *PageConfig) {
	if cfg.Background == "" {
		cfg.Background = "#111111"
	}
	var walk func(list []ElementConfig)
	walk = func(list []ElementConfig) {
		for i := range list {
			e := &list[i]
			if e.Tag == "" {
				e.Tag = "div"
			}
			if e.Shape == "" {
				if e.Text != "" {
					e.Shape = "text"
				} else {
					e.Shape = "none"
				}
			}
			// 有形状但没写颜色的元素用前景色，否则两种渲染都画成透明
			if e.Color == "" && e.Shape != "none" {
				e.Color = DefaultForeground
			}
			if e.FontSize == 0 {
				e.FontSize = DefaultFontSize
			}
			if e.ClipScale == 0 {
				e.ClipScale = 1
			}
			walk(e.Children)
		}
	}
	walk(cfg.Elements)
}

// ShapeKind 配置中的形状名对应的组件枚举
func (e *ElementConfig) ShapeKind() (components.ShapeKind, error) {
	switch e.Shape {
	case "", "none":
		return components.ShapeNone, nil
	case "rect":
		return components.ShapeRect, nil
	case "disc":
		return components.ShapeDisc, nil
	case "line":
		return components.ShapeLine, nil
	case "text":
		return components.ShapeText, nil
	case "clip":
		return components.ShapeClip, nil
	}
	return components.ShapeNone, fmt.Errorf("unknown shape %q", e.Shape)
}

// ParseColor 解析 "#rgb"、"#rrggbb"、"#rrggbbaa"
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustColor 解析已校验过的颜色；空串返回透明
func MustColor(s string) color.RGBA {
	if s == "" {
		return color.RGBA{}
	}
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
