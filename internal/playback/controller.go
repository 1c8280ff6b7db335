// Package playback 播放/暂停状态机
//
// 控制器只有两个状态：Playing 和 Paused。它驱动一条循环时间线（不受滚动控制），
// 并与一个媒体元素（音频）保持一致：只调用媒体的 Play/Pause 并读取它的暂停标志，
// 从不改变播放位置。
package playback

import (
	"log"
)

// Playable 可播放/暂停的时间线；*timeline.Timeline 满足此接口
type Playable interface {
	Play()
	Pause()
	Paused() bool
}

// Media 媒体元素
type Media interface {
	Play()
	Pause()
	Paused() bool
}

// Controller 播放控制器
type Controller struct {
	playing bool
	tl      Playable
	media   Media

	nextID    int
	listeners map[int]func(playing bool)
	order     []int
}

// New 创建控制器
func New(playing bool) *Controller {
	return &Controller{
		playing:   playing,
		listeners: make(map[int]func(bool)),
	}
}

// Toggle 切换状态，返回切换后的状态
func (c *Controller) Toggle() bool {
	c.SetPlaying(!c.playing)
	return c.playing
}

// SetPlaying 直接设置状态（外部媒体事件，例如播放结束）
func (c *Controller) SetPlaying(playing bool) {
	changed := playing != c.playing
	c.playing = playing
	c.apply()
	if !changed {
		return
	}
	if playing {
		log.Printf("[Playback] playing")
	} else {
		log.Printf("[Playback] paused")
	}
	c.notify()
}

// IsPlaying 当前状态
func (c *Controller) IsPlaying() bool {
	return c.playing
}

// Bind 绑定循环时间线，并立即应用当前状态
// 进入 Playing 时时间线从当前播放头继续，不会重置
func (c *Controller) Bind(tl Playable) {
	c.tl = tl
	c.apply()
}

// BindMedia 绑定媒体元素，并立即应用当前状态
func (c *Controller) BindMedia(m Media) {
	c.media = m
	c.apply()
}

// Unbind 解除时间线与媒体的绑定（视图销毁时调用）
func (c *Controller) Unbind() {
	c.tl = nil
	c.media = nil
}

// Sync 每个 tick 调用一次
//
// 媒体自行改变了状态（播放结束、系统媒体键）时以媒体为准更新状态，
// 然后重新确认时间线与媒体一致，因此两者的分歧不会超过一个 tick。
func (c *Controller) Sync() {
	if c.media != nil {
		if mediaPlaying := !c.media.Paused(); mediaPlaying != c.playing {
			log.Printf("[Playback] media changed state on its own (playing=%v)", mediaPlaying)
			c.SetPlaying(mediaPlaying)
			return
		}
	}
	c.apply()
}

// OnChange 订阅状态变化，返回取消函数
func (c *Controller) OnChange(fn func(playing bool)) func() {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.order = append(c.order, id)
	return func() {
		delete(c.listeners, id)
		for i, x := range c.order {
			if x == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
}

func (c *Controller) apply() {
	if c.tl != nil && c.tl.Paused() == c.playing {
		if c.playing {
			c.tl.Play()
		} else {
			c.tl.Pause()
		}
	}
	if c.media != nil && c.media.Paused() == c.playing {
		if c.playing {
			c.media.Play()
		} else {
			c.media.Pause()
		}
	}
}

func (c *Controller) notify() {
	ids := append([]int(nil), c.order...)
	for _, id := range ids {
		fn, ok := c.listeners[id]
		if !ok {
			continue
		}
		call(fn, c.playing)
	}
}

func call(fn func(bool), playing bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Playback] Warning: listener panicked: %v", r)
		}
	}()
	fn(playing)
}
