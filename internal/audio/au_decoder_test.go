package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func auFile(encoding, rate, channels uint32, payload []byte) []byte {
	var buf bytes.Buffer
	h := auHeader{
		Magic:      auMagic,
		DataOffset: auHeaderSize,
		DataSize:   uint32(len(payload)),
		Encoding:   encoding,
		SampleRate: rate,
		Channels:   channels,
	}
	_ = binary.Write(&buf, binary.BigEndian, h)
	buf.Write(payload)
	return buf.Bytes()
}

func TestULawTable(t *testing.T) {
	tests := []struct {
		in   byte
		want int16
	}{
		{0x00, -32124},
		{0x7f, 0},
		{0x80, 32124},
		{0xff, 0},
		{0x10, -15996},
		{0xf0, 120},
	}
	for _, tt := range tests {
		if got := ulawToLinear(tt.in); got != tt.want {
			t.Errorf("ulawToLinear(0x%02x) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDecodeMonoULawToStereo(t *testing.T) {
	s, err := DecodeAU(bytes.NewReader(auFile(auEncodingULaw, 8000, 1, []byte{0x80, 0x00})))
	if err != nil {
		t.Fatalf("DecodeAU: %v", err)
	}
	if s.Length() != 8 || s.Channels() != 1 || s.SampleRate() != 8000 {
		t.Fatalf("length=%d channels=%d rate=%d", s.Length(), s.Channels(), s.SampleRate())
	}

	out, _ := io.ReadAll(s)
	l := int16(binary.LittleEndian.Uint16(out[0:]))
	r := int16(binary.LittleEndian.Uint16(out[2:]))
	if l != 32124 || r != 32124 {
		t.Errorf("first frame = (%d, %d)", l, r)
	}
	if second := int16(binary.LittleEndian.Uint16(out[6:])); second != -32124 {
		t.Errorf("second frame right = %d", second)
	}
}

func TestDecodeStereoPCM16(t *testing.T) {
	payload := []byte{0x01, 0x00, 0xff, 0xff} // 256, -1
	s, err := DecodeAU(bytes.NewReader(auFile(auEncodingPCM16, 44100, 2, payload)))
	if err != nil {
		t.Fatalf("DecodeAU: %v", err)
	}
	out, _ := io.ReadAll(s)
	if len(out) != 4 {
		t.Fatalf("len = %d", len(out))
	}
	if l := int16(binary.LittleEndian.Uint16(out)); l != 256 {
		t.Errorf("left = %d", l)
	}
	if r := int16(binary.LittleEndian.Uint16(out[2:])); r != -1 {
		t.Errorf("right = %d", r)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeAU(bytes.NewReader([]byte("short"))); !errors.Is(err, ErrNotAU) {
		t.Errorf("short file: %v", err)
	}
	bad := auFile(auEncodingULaw, 8000, 1, []byte{0})
	copy(bad, "RIFF")
	if _, err := DecodeAU(bytes.NewReader(bad)); !errors.Is(err, ErrNotAU) {
		t.Errorf("bad magic: %v", err)
	}
	if _, err := DecodeAU(bytes.NewReader(auFile(27, 8000, 1, []byte{0}))); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("bad encoding: %v", err)
	}
	if _, err := DecodeAU(bytes.NewReader(auFile(auEncodingULaw, 8000, 6, []byte{0}))); err == nil {
		t.Error("six channels should fail")
	}
}

func TestSeek(t *testing.T) {
	s, _ := DecodeAU(bytes.NewReader(auFile(auEncodingULaw, 8000, 1, make([]byte, 8000))))
	if s.Seconds() != 1 {
		t.Errorf("seconds = %v", s.Seconds())
	}
	if pos, err := s.Seek(-4, io.SeekEnd); err != nil || pos != s.Length()-4 {
		t.Errorf("seek end: %d %v", pos, err)
	}
	if _, err := s.Seek(-1, io.SeekStart); err == nil {
		t.Error("negative seek should fail")
	}
	if n, _ := s.Read(make([]byte, 16)); n != 4 {
		t.Errorf("read after seek = %d bytes", n)
	}
}
