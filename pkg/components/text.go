package components

import (
	"github.com/gonewx/vinyl/internal/splittext"
	"github.com/gonewx/vinyl/pkg/ecs"
)

// TextComponent 文本内容
// 拆分后的文本不直接绘制，而是由 FragmentComponent 子元素逐段绘制
type TextComponent struct {
	Text  string
	Size  float64 // 字号（像素）
	Split bool
	Kind  splittext.Kind
}

// FragmentComponent 拆分文本的一个片段（字、词或行）
type FragmentComponent struct {
	Owner    ecs.EntityID
	Fragment splittext.Fragment
}
