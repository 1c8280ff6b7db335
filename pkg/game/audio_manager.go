package game

import (
	"log"
)

// AudioManager 音频管理器
// 职责：
//   - 为页面创建媒体元素（音乐被关闭或资源缺失时返回静音媒体）
//   - 与设置联动：应用 SettingsManager 中的音量和开关
type AudioManager struct {
	resourceManager *ResourceManager
	settingsManager *SettingsManager
	media           map[string]*MediaElement // 资源路径 -> 媒体元素
}

// NewAudioManager 创建音频管理器；sm 可以为 nil（使用默认设置）
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		media:           make(map[string]*MediaElement),
	}
}

// Media 返回资源对应的媒体元素；同一路径总是返回同一个元素
func (am *AudioManager) Media(path string) *MediaElement {
	if m, ok := am.media[path]; ok {
		return m
	}

	m := NewMediaElement(nil, 0)
	settings := am.settings()
	if path != "" && settings.MusicEnabled && am.resourceManager != nil {
		player, err := am.resourceManager.LoadAudio(path)
		if err != nil {
			log.Printf("[AudioManager] Warning: %v (using silent media)", err)
		} else {
			m = NewMediaElement(player, am.resourceManager.AudioDuration(path))
		}
	}
	m.SetVolume(settings.MusicVolume)
	am.media[path] = m
	return m
}

// ApplySettings 设置变化后更新全部媒体元素的音量
func (am *AudioManager) ApplySettings() {
	vol := am.settings().MusicVolume
	for _, m := range am.media {
		m.SetVolume(vol)
	}
}

// PauseAll 暂停全部媒体（窗口失去焦点、程序退出）
func (am *AudioManager) PauseAll() {
	for _, m := range am.media {
		m.Pause()
	}
}

func (am *AudioManager) settings() *Settings {
	if am.settingsManager == nil {
		return DefaultSettings()
	}
	return am.settingsManager.GetSettings()
}
