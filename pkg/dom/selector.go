package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gonewx/vinyl/pkg/components"
)

// ErrBadSelector 选择器语法错误
var ErrBadSelector = errors.New("bad selector")

// compound 单个复合选择器，如 "div.box.box-a" 或 "#disc"
type compound struct {
	tag     string // "" 或 "*" 匹配任意标签
	id      string
	classes []string
}

func (c compound) matches(e *components.ElementComponent) bool {
	if c.tag != "" && c.tag != "*" && c.tag != e.Tag {
		return false
	}
	if c.id != "" && c.id != e.ID {
		return false
	}
	for _, cl := range c.classes {
		if !e.HasClass(cl) {
			return false
		}
	}
	return true
}

// chain 由后代组合符连接的复合选择器，最后一项匹配元素本身
type chain []compound

// Selector 已解析的选择器（逗号分隔的多个 chain）
type Selector struct {
	src    string
	chains []chain
}

func (s Selector) String() string { return s.src }

// ParseSelector 解析选择器
//
// 支持 "#id"、".class"、标签名、"*"、复合（"p.lyric"）、
// 后代组合（".lyrics .line"）以及逗号列表（".a, .b"）。
func ParseSelector(src string) (Selector, error) {
	sel := Selector{src: src}
	for _, part := range strings.Split(src, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			return Selector{}, fmt.Errorf("%w: empty selector in %q", ErrBadSelector, src)
		}
		var ch chain
		for _, f := range fields {
			c, err := parseCompound(f)
			if err != nil {
				return Selector{}, fmt.Errorf("%w: %q: %v", ErrBadSelector, src, err)
			}
			ch = append(ch, c)
		}
		sel.chains = append(sel.chains, ch)
	}
	return sel, nil
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	for i < len(s) && s[i] != '#' && s[i] != '.' {
		i++
	}
	c.tag = s[:i]
	for i < len(s) {
		kind := s[i]
		j := i + 1
		for j < len(s) && s[j] != '#' && s[j] != '.' {
			j++
		}
		name := s[i+1 : j]
		if name == "" {
			return compound{}, fmt.Errorf("dangling %q", string(kind))
		}
		if kind == '#' {
			if c.id != "" {
				return compound{}, fmt.Errorf("two ids in %q", s)
			}
			c.id = name
		} else {
			c.classes = append(c.classes, name)
		}
		i = j
	}
	return c, nil
}
