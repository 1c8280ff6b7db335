package scrolltrigger

import (
	"fmt"
	"strconv"
	"strings"
)

// Rect 元素在文档坐标系中的矩形（与当前滚动偏移无关）
type Rect struct {
	X, Y, W, H float64
}

// Layout 布局查询接口，由外部的 DOM/布局协作方实现
type Layout interface {
	// Bounds 返回选择器匹配的第一个元素的文档矩形
	Bounds(selector string) (Rect, bool)
	ViewportHeight() float64
	ScrollOffset() float64
	// Version 内容或布局变化时递增
	Version() uint64
}

// edge 一条边在某个矩形内的位置：frac*尺寸 + px
type edge struct {
	frac float64
	px   float64
}

func (e edge) at(size float64) float64 {
	return e.frac*size + e.px
}

// Boundary 已解析的边界表达式
type Boundary struct {
	expr string

	absolute bool    // 纯数字：绝对滚动偏移
	relative bool    // "+=N"：相对已解析的 start（仅用于 end）
	value    float64 // absolute / relative 时的数值

	elem edge
	view edge
}

// String 原始表达式
func (b Boundary) String() string {
	return b.expr
}

// needsElement 解析时是否需要目标元素的布局
func (b Boundary) needsElement() bool {
	return !b.absolute && !b.relative
}

// ParseBoundary 解析边界表达式
//
// 支持：
//   - "top bottom"、"center center"、"top+=100 80%"：元素边 + 视口边
//   - "300"：绝对滚动偏移
//   - "+=300" / "-=50"：相对于 start 的偏移（allowRelative 为 true 时）
//
// 边的取值：top | center | bottom | N% | Npx | N
func ParseBoundary(expr string, allowRelative bool) (Boundary, error) {
	s := strings.TrimSpace(expr)
	b := Boundary{expr: s}
	if s == "" {
		return b, fmt.Errorf("%w: empty expression", ErrBadBoundary)
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		b.absolute = true
		b.value = v
		return b, nil
	}

	if strings.HasPrefix(s, "+=") || strings.HasPrefix(s, "-=") {
		if !allowRelative {
			return b, fmt.Errorf("%w: %q is only valid for end", ErrBadBoundary, s)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s[2:]), 64)
		if err != nil {
			return b, fmt.Errorf("%w: %q", ErrBadBoundary, s)
		}
		if s[0] == '-' {
			v = -v
		}
		b.relative = true
		b.value = v
		return b, nil
	}

	fields := strings.Fields(s)
	if len(fields) > 2 {
		return b, fmt.Errorf("%w: %q has too many parts", ErrBadBoundary, s)
	}
	elem, err := parseEdge(fields[0])
	if err != nil {
		return b, fmt.Errorf("%w: %q: %v", ErrBadBoundary, s, err)
	}
	view := edge{}
	if len(fields) == 2 {
		view, err = parseEdge(fields[1])
		if err != nil {
			return b, fmt.Errorf("%w: %q: %v", ErrBadBoundary, s, err)
		}
	}
	b.elem = elem
	b.view = view
	return b, nil
}

// parseEdge 解析单条边，可带 "+=N" / "-=N" 像素偏移
func parseEdge(tok string) (edge, error) {
	name, delta := tok, 0.0
	if i := strings.Index(tok, "+="); i > 0 {
		name = tok[:i]
		v, err := strconv.ParseFloat(tok[i+2:], 64)
		if err != nil {
			return edge{}, fmt.Errorf("bad offset in %q", tok)
		}
		delta = v
	} else if i := strings.Index(tok, "-="); i > 0 {
		name = tok[:i]
		v, err := strconv.ParseFloat(tok[i+2:], 64)
		if err != nil {
			return edge{}, fmt.Errorf("bad offset in %q", tok)
		}
		delta = -v
	}

	var e edge
	switch name {
	case "top":
	case "center":
		e.frac = 0.5
	case "bottom":
		e.frac = 1
	default:
		switch {
		case strings.HasSuffix(name, "%"):
			v, err := strconv.ParseFloat(strings.TrimSuffix(name, "%"), 64)
			if err != nil {
				return edge{}, fmt.Errorf("bad percentage %q", name)
			}
			e.frac = v / 100
		default:
			v, err := strconv.ParseFloat(strings.TrimSuffix(name, "px"), 64)
			if err != nil {
				return edge{}, fmt.Errorf("unknown edge %q", name)
			}
			e.px = v
		}
	}
	e.px += delta
	return e, nil
}

// resolve 把边界换算为滚动偏移
// base 是已解析的 start，仅 relative 边界使用
func (b Boundary) resolve(elem Rect, viewport, base float64) float64 {
	switch {
	case b.absolute:
		return b.value
	case b.relative:
		return base + b.value
	}
	return elem.Y + b.elem.at(elem.H) - b.view.at(viewport)
}
