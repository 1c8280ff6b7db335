package components

import "github.com/gonewx/vinyl/pkg/ecs"

// ElementComponent 页面元素的身份信息
// 选择器（#id、.class、标签名）只依据这个组件匹配
type ElementComponent struct {
	ID      string   // 元素 id，可以为空
	Tag     string   // 标签名，如 "section"、"h1"、"p"
	Classes []string // 类名，顺序即添加顺序

	// Parent 父元素，0 表示文档根
	Parent ecs.EntityID
	// Order 文档顺序（深度优先），布局和绘制都按它排序
	Order int
}

// HasClass 是否带有指定类名
func (e *ElementComponent) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}
