package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// AU 文件头（大端序，至少 24 字节）
type auHeader struct {
	Magic      uint32 // ".snd"
	DataOffset uint32
	DataSize   uint32 // 0xFFFFFFFF 表示未知
	Encoding   uint32
	SampleRate uint32
	Channels   uint32
}

const (
	auMagic         = 0x2e736e64
	auHeaderSize    = 24
	auUnknownSize   = 0xFFFFFFFF
	auEncodingULaw  = 1 // 8-bit μ-law
	auEncodingPCM16 = 3 // 16-bit linear PCM（大端）
)

var (
	// ErrNotAU 文件头的魔数不是 ".snd"
	ErrNotAU = errors.New("not an AU file")
	// ErrUnsupportedEncoding 不支持的编码
	ErrUnsupportedEncoding = errors.New("unsupported AU encoding")
)

// Stream 解码后的音频流：16-bit 小端、双声道 PCM
// 实现 io.ReadSeeker 和 Length()，可直接交给 ebiten 的 audio.Player
type Stream struct {
	data       []byte
	sampleRate int
	channels   int // 源文件声道数
	offset     int64
}

// DecodeAU 解码 Sun/NeXT .au 文件（μ-law 或 16-bit PCM，单声道或双声道）
// 单声道会复制为双声道
func DecodeAU(r io.Reader) (*Stream, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read AU data: %w", err)
	}
	if len(data) < auHeaderSize {
		return nil, fmt.Errorf("%w: only %d bytes", ErrNotAU, len(data))
	}

	var h auHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to read AU header: %w", err)
	}
	if h.Magic != auMagic {
		return nil, fmt.Errorf("%w: magic 0x%08x", ErrNotAU, h.Magic)
	}
	if h.Channels < 1 || h.Channels > 2 {
		return nil, fmt.Errorf("unsupported channel count: %d", h.Channels)
	}
	if h.DataOffset < auHeaderSize || int(h.DataOffset) > len(data) {
		return nil, fmt.Errorf("invalid data offset %d (file size %d)", h.DataOffset, len(data))
	}

	payload := data[h.DataOffset:]
	if h.DataSize != auUnknownSize && int(h.DataSize) < len(payload) {
		payload = payload[:h.DataSize]
	}

	var samples []int16
	switch h.Encoding {
	case auEncodingULaw:
		samples = make([]int16, len(payload))
		for i, b := range payload {
			samples[i] = ulawToLinear(b)
		}
	case auEncodingPCM16:
		samples = make([]int16, len(payload)/2)
		for i := range samples {
			samples[i] = int16(binary.BigEndian.Uint16(payload[i*2:]))
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedEncoding, h.Encoding)
	}

	return &Stream{
		data:       interleave(samples, int(h.Channels)),
		sampleRate: int(h.SampleRate),
		channels:   int(h.Channels),
	}, nil
}

// ulawToLinear G.711 μ-law 解码
func ulawToLinear(u byte) int16 {
	u = ^u
	t := (int(u&0x0f) << 3) + 0x84
	t <<= (u & 0x70) >> 4
	if u&0x80 != 0 {
		return int16(0x84 - t)
	}
	return int16(t - 0x84)
}

// interleave 输出小端双声道数据
func interleave(samples []int16, channels int) []byte {
	frames := len(samples) / channels
	out := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		left := samples[i*channels]
		right := left
		if channels == 2 {
			right = samples[i*channels+1]
		}
		binary.LittleEndian.PutUint16(out[i*4:], uint16(left))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(right))
	}
	return out
}

// Read 实现 io.Reader
func (s *Stream) Read(p []byte) (int, error) {
	if s.offset >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.offset:])
	s.offset += int64(n)
	return n, nil
}

// Seek 实现 io.Seeker
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = s.offset + offset
	case io.SeekEnd:
		next = int64(len(s.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative position: %d", next)
	}
	s.offset = next
	return next, nil
}

// Length 解码后的字节数（ebiten audio.Player 需要）
func (s *Stream) Length() int64 {
	return int64(len(s.data))
}

// SampleRate 采样率
func (s *Stream) SampleRate() int {
	return s.sampleRate
}

// Channels 源文件声道数
func (s *Stream) Channels() int {
	return s.channels
}

// Seconds 时长（秒）
func (s *Stream) Seconds() float64 {
	if s.sampleRate == 0 {
		return 0
	}
	return float64(len(s.data)/4) / float64(s.sampleRate)
}
