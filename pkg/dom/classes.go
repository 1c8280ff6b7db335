package dom

import "github.com/gonewx/vinyl/pkg/ecs"

// AddClass 给元素添加类名；已存在时返回 false
func (d *Document) AddClass(e ecs.EntityID, class string) bool {
	el := d.Element(e)
	if el == nil || el.HasClass(class) {
		return false
	}
	el.Classes = append(el.Classes, class)
	return true
}

// RemoveClass 移除类名；不存在时返回 false
func (d *Document) RemoveClass(e ecs.EntityID, class string) bool {
	el := d.Element(e)
	if el == nil {
		return false
	}
	for i, c := range el.Classes {
		if c == class {
			el.Classes = append(el.Classes[:i:i], el.Classes[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleClass 按 on 添加或移除类名，返回是否发生了变化
func (d *Document) ToggleClass(e ecs.EntityID, class string, on bool) bool {
	if on {
		return d.AddClass(e, class)
	}
	return d.RemoveClass(e, class)
}

// HasClass 元素是否带有类名
func (d *Document) HasClass(e ecs.EntityID, class string) bool {
	el := d.Element(e)
	return el != nil && el.HasClass(class)
}

// SetClass 对匹配选择器的全部元素设置类名，返回发生变化的元素数
func (d *Document) SetClass(selector, class string, on bool) int {
	n := 0
	for _, e := range d.Query(selector) {
		if d.ToggleClass(e, class, on) {
			n++
		}
	}
	return n
}
