package game

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gonewx/vinyl/internal/audio"
	"github.com/gonewx/vinyl/internal/clip"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/embedded"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/errgroup"
)

// ClipDir 模型剪辑所在目录，剪辑名 "desktop" 对应 data/models/desktop.clip
const ClipDir = "data/models"

// preloadLimit 并行预加载的最大协程数
const preloadLimit = 4

// ResourceManager is responsible for centralized management of page resources.
// It provides loading and caching for page configs, model clips, audio and
// font faces, so each resource is decoded only once.
//
// Files are read from the embedded filesystem when it has been initialized
// and contains the path, otherwise from disk. Preload may be called from a
// single goroutine; it fans out internally and the caches are guarded.
//
// Usage:
//
//	rm := NewResourceManager(ebaudio.NewContext(48000))
//	if err := rm.Preload(ctx, config.HomePagePath, config.LyricsPagePath); err != nil {
//	    log.Fatalf("preload: %v", err)
//	}
type ResourceManager struct {
	audioContext *ebaudio.Context // 为 nil 时音频被禁用

	mu         sync.Mutex
	pages      map[string]*config.PageConfig
	clips      map[string]*clip.Clip
	audioCache map[string]*ebaudio.Player
	durations  map[string]time.Duration

	fontSource *text.GoTextFaceSource
	faces      map[float64]*text.GoTextFace
}

// NewResourceManager creates a ResourceManager with empty caches.
// audioContext may be nil, in which case LoadAudio always fails and pages
// run with a silent media element.
func NewResourceManager(audioContext *ebaudio.Context) *ResourceManager {
	return &ResourceManager{
		audioContext: audioContext,
		pages:        make(map[string]*config.PageConfig),
		clips:        make(map[string]*clip.Clip),
		audioCache:   make(map[string]*ebaudio.Player),
		durations:    make(map[string]time.Duration),
		faces:        make(map[float64]*text.GoTextFace),
	}
}

// ReadFile 读取资源文件：优先嵌入文件系统，其次磁盘
func (rm *ResourceManager) ReadFile(p string) ([]byte, error) {
	if embedded.IsInitialized() && embedded.Exists(p) {
		return embedded.ReadFile(p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, nil
}

// LoadPage 加载并校验页面配置
func (rm *ResourceManager) LoadPage(p string) (*config.PageConfig, error) {
	rm.mu.Lock()
	cached, ok := rm.pages[p]
	rm.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := rm.ReadFile(p)
	if err != nil {
		return nil, err
	}
	cfg, err := config.ParsePageConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	rm.mu.Lock()
	rm.pages[p] = cfg
	rm.mu.Unlock()
	return cfg, nil
}

// Clip 按名称加载模型剪辑（实现 page.ClipSource）
func (rm *ResourceManager) Clip(name string) (*clip.Clip, error) {
	rm.mu.Lock()
	cached, ok := rm.clips[name]
	rm.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := rm.ReadFile(path.Join(ClipDir, name+".clip"))
	if err != nil {
		return nil, err
	}
	c, err := clip.ParseClip(name, data)
	if err != nil {
		return nil, err
	}

	rm.mu.Lock()
	rm.clips[name] = c
	rm.mu.Unlock()
	return c, nil
}

// LoadAudio loads an audio file and caches its player.
// Unlike background music the stream is not looped: the player stops at the
// end so the playback controller can mirror the ended state.
// Supported formats: Sun AU (.au), MP3 (.mp3) and OGG Vorbis (.ogg).
func (rm *ResourceManager) LoadAudio(p string) (*ebaudio.Player, error) {
	if rm.audioContext == nil {
		return nil, fmt.Errorf("audio disabled, cannot load %s", p)
	}
	rm.mu.Lock()
	cached, ok := rm.audioCache[p]
	rm.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := rm.ReadFile(p)
	if err != nil {
		return nil, err
	}
	stream, dur, err := rm.decode(p, data)
	if err != nil {
		return nil, err
	}
	player, err := rm.audioContext.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", p, err)
	}

	rm.mu.Lock()
	rm.audioCache[p] = player
	rm.durations[p] = dur
	rm.mu.Unlock()
	return player, nil
}

// AudioDuration 已加载音频的时长；未加载时为 0
func (rm *ResourceManager) AudioDuration(p string) time.Duration {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.durations[p]
}

// decode 按扩展名解码，并重采样到音频上下文的采样率
// 解码结果是 16-bit 双声道 PCM，每帧 4 字节
func (rm *ResourceManager) decode(p string, data []byte) (io.ReadSeeker, time.Duration, error) {
	reader := bytes.NewReader(data)
	var (
		stream interface {
			io.ReadSeeker
			Length() int64
		}
		rate int
	)

	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".au":
		s, err := audio.DecodeAU(reader)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode AU audio %s: %w", p, err)
		}
		stream, rate = s, s.SampleRate()
	case ".mp3":
		s, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode MP3 audio %s: %w", p, err)
		}
		stream, rate = s, s.SampleRate()
	case ".ogg":
		s, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode OGG audio %s: %w", p, err)
		}
		stream, rate = s, s.SampleRate()
	default:
		return nil, 0, fmt.Errorf("unsupported audio format: %s (supported: .au, .mp3, .ogg)", ext)
	}

	dur := time.Duration(float64(stream.Length()/4) / float64(rate) * float64(time.Second))
	if target := rm.audioContext.SampleRate(); rate != target {
		return ebaudio.Resample(stream, stream.Length(), rate, target), dur, nil
	}
	return stream, dur, nil
}

// Face 返回指定字号的字体（内置 Go Regular）
func (rm *ResourceManager) Face(size float64) (*text.GoTextFace, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if face, ok := rm.faces[size]; ok {
		return face, nil
	}
	if rm.fontSource == nil {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source: %w", err)
		}
		rm.fontSource = source
	}
	face := &text.GoTextFace{
		Source:    rm.fontSource,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.faces[size] = face
	return face, nil
}

// Preload 并行加载页面配置，以及这些页面引用的剪辑和音频
//
// 页面配置错误是致命的；剪辑和音频缺失只记录警告，页面会以静态模型或静音运行。
func (rm *ResourceManager) Preload(ctx context.Context, pages ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadLimit)

	for _, p := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg, err := rm.LoadPage(p)
			if err != nil {
				return err
			}
			for _, name := range clipNames(cfg.Elements) {
				if _, err := rm.Clip(name); err != nil {
					log.Printf("[ResourceManager] Warning: %s: %v", p, err)
				}
			}
			if pb := cfg.Playback; pb != nil && pb.Media != "" && rm.audioContext != nil {
				if _, err := rm.LoadAudio(pb.Media); err != nil {
					log.Printf("[ResourceManager] Warning: %s: %v", p, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Printf("[ResourceManager] preloaded %d pages, %d clips", len(pages), rm.clipCount())
	return nil
}

func (rm *ResourceManager) clipCount() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.clips)
}

// clipNames 收集元素树中引用的剪辑名
func clipNames(list []config.ElementConfig) []string {
	var out []string
	for i := range list {
		if list[i].Clip != "" {
			out = append(out, list[i].Clip)
		}
		out = append(out, clipNames(list[i].Children)...)
	}
	return out
}
