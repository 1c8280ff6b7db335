package timeline

import (
	"fmt"
	"strconv"
	"strings"
)

// positionKind 位置标记的种类
type positionKind int

const (
	posEnd       positionKind = iota // "" 时间线末尾
	posAbsolute                      // "1.5" 绝对时间
	posPrevStart                     // "<" / "<0.2" 相对上一段的开始
	posPrevEnd                       // ">" / ">-0.1" 相对上一段的结束
	posRelEnd                        // "+=0.5" / "-=0.5" 相对时间线末尾
	posLabel                         // "intro" / "intro+=0.3" 相对命名标签
)

// Position 已解析的位置标记
type Position struct {
	kind   positionKind
	offset float64
	label  string
}

// Pos 把绝对秒数格式化为位置标记
func Pos(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

// ParsePosition 解析位置标记
//
// 支持的语法：
//   - ""            时间线当前末尾（紧接在所有已添加片段之后）
//   - "1.5"         绝对时间（秒）
//   - "<" "<0.2"    上一次 Add 的开始时间，可带偏移（也可写作 "<+=0.2"）
//   - ">" ">-0.1"   上一次 Add 的结束时间，可带偏移（也可写作 ">-=0.1"）
//   - "+=0.5"       时间线末尾之后 0.5 秒（"-=0.5" 为重叠 0.5 秒）
//   - "label"       命名标签，可带 "+=Δ" / "-=Δ"
func ParsePosition(token string) (Position, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return Position{kind: posEnd}, nil
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Position{kind: posAbsolute, offset: v}, nil
	}

	switch s[0] {
	case '<', '>':
		kind := posPrevStart
		if s[0] == '>' {
			kind = posPrevEnd
		}
		offset, err := parseOffset(s[1:])
		if err != nil {
			return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, token)
		}
		return Position{kind: kind, offset: offset}, nil
	}

	if strings.HasPrefix(s, "+=") || strings.HasPrefix(s, "-=") {
		offset, err := parseRelative(s)
		if err != nil {
			return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, token)
		}
		return Position{kind: posRelEnd, offset: offset}, nil
	}

	// 标签（可带相对偏移）
	label, rest := s, ""
	if i := strings.Index(s, "+="); i > 0 {
		label, rest = s[:i], s[i:]
	} else if i := strings.Index(s, "-="); i > 0 {
		label, rest = s[:i], s[i:]
	}
	offset := 0.0
	if rest != "" {
		var err error
		offset, err = parseRelative(rest)
		if err != nil {
			return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, token)
		}
	}
	return Position{kind: posLabel, label: strings.TrimSpace(label), offset: offset}, nil
}

// parseOffset 解析 "<" / ">" 之后的可选偏移："0.2"、"-0.1"、"+=0.2"、"-=0.1"
func parseOffset(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.HasPrefix(s, "+=") || strings.HasPrefix(s, "-=") {
		return parseRelative(s)
	}
	return strconv.ParseFloat(s, 64)
}

// parseRelative 解析 "+=N" / "-=N"
func parseRelative(s string) (float64, error) {
	if len(s) < 3 || (s[:2] != "+=" && s[:2] != "-=") {
		return 0, fmt.Errorf("not a relative value: %q", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s[2:]), 64)
	if err != nil {
		return 0, err
	}
	if s[0] == '-' {
		v = -v
	}
	return v, nil
}

// resolve 根据当前片段列表把位置标记换算为绝对开始时间
func (t *Timeline) resolve(p Position) (float64, error) {
	var at float64
	switch p.kind {
	case posEnd:
		at = t.duration
	case posAbsolute:
		at = p.offset
	case posPrevStart:
		at = t.lastStart + p.offset
	case posPrevEnd:
		at = t.lastEnd + p.offset
	case posRelEnd:
		at = t.duration + p.offset
	case posLabel:
		base, ok := t.labels[p.label]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, p.label)
		}
		at = base + p.offset
	}

	if at < 0 {
		return 0, fmt.Errorf("%w: %.3f", ErrNegativeStart, at)
	}
	return at, nil
}

// resolveToken 解析并换算位置标记
func (t *Timeline) resolveToken(token string) (float64, error) {
	p, err := ParsePosition(token)
	if err != nil {
		return 0, err
	}
	return t.resolve(p)
}
