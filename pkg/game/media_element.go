package game

import (
	"time"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// endTolerance 播放位置距离结尾小于该值视为播放结束
const endTolerance = 20 * time.Millisecond

// MediaElement 把音频播放器包装为播放控制器使用的媒体元素
//
// 没有播放器（音乐被关闭、资源缺失）时是一个静音媒体：只记录播放状态。
// 音轨播放结束后 Paused 返回 true，控制器在下一个 tick 同步为暂停；
// 再次播放时从头开始。
type MediaElement struct {
	player   *ebaudio.Player
	duration time.Duration
	playing  bool
}

// NewMediaElement 创建媒体元素；player 可以为 nil
// duration 为 0 时不做结束检测
func NewMediaElement(player *ebaudio.Player, duration time.Duration) *MediaElement {
	return &MediaElement{player: player, duration: duration}
}

// Play 开始或继续播放
func (m *MediaElement) Play() {
	m.playing = true
	if m.player == nil {
		return
	}
	if m.ended() {
		if err := m.player.Rewind(); err != nil {
			m.playing = false
			return
		}
	}
	m.player.Play()
}

// Pause 暂停播放
func (m *MediaElement) Pause() {
	m.playing = false
	if m.player != nil {
		m.player.Pause()
	}
}

// Paused 是否处于暂停状态（包括自然播放结束）
func (m *MediaElement) Paused() bool {
	if m.player == nil {
		return !m.playing
	}
	if m.playing && !m.player.IsPlaying() {
		// 播放器自己停下来了（播放到结尾）
		m.playing = false
	}
	return !m.playing
}

// SetVolume 设置音量 0.0 ~ 1.0
func (m *MediaElement) SetVolume(volume float64) {
	if m.player != nil {
		m.player.SetVolume(clampVolume(volume))
	}
}

// Silent 是否没有实际的播放器
func (m *MediaElement) Silent() bool {
	return m.player == nil
}

func (m *MediaElement) ended() bool {
	return m.duration > 0 && m.player.Position() >= m.duration-endTolerance
}
