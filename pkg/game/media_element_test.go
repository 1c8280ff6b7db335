package game

import (
	"testing"

	"github.com/gonewx/vinyl/internal/playback"
)

var _ playback.Media = (*MediaElement)(nil)

// TestSilentMedia 没有播放器时只记录状态
func TestSilentMedia(t *testing.T) {
	m := NewMediaElement(nil, 0)
	if !m.Paused() || !m.Silent() {
		t.Fatal("new silent media should be paused")
	}
	m.Play()
	if m.Paused() {
		t.Error("Play should clear paused")
	}
	m.SetVolume(2)
	m.Pause()
	if !m.Paused() {
		t.Error("Pause should set paused")
	}
}

// TestSilentMediaDrivesController 静音媒体与播放控制器保持一致
func TestSilentMediaDrivesController(t *testing.T) {
	m := NewMediaElement(nil, 0)
	c := playback.New(false)
	c.BindMedia(m)

	c.Toggle()
	c.Sync()
	if m.Paused() || !c.IsPlaying() {
		t.Error("toggle should start the media")
	}
	c.Toggle()
	c.Sync()
	if !m.Paused() || c.IsPlaying() {
		t.Error("second toggle should pause the media")
	}
}

// TestAudioManagerSilentFallback 音乐关闭时返回静音媒体，同一路径复用
func TestAudioManagerSilentFallback(t *testing.T) {
	sm := NewSettingsManager(nil)
	sm.SetMusicEnabled(false)
	am := NewAudioManager(NewResourceManager(nil), sm)

	m := am.Media("assets/audio/disc.au")
	if !m.Silent() {
		t.Error("disabled music should give silent media")
	}
	if am.Media("assets/audio/disc.au") != m {
		t.Error("same path should return the same media element")
	}
	am.ApplySettings()
	am.PauseAll()
	if !m.Paused() {
		t.Error("PauseAll should pause every media element")
	}
}
