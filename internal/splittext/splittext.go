// Package splittext 把文本拆成字符、单词或行，用于逐段出现的文字动画
//
// 字符按字素簇（grapheme cluster）划分，组合字符和 emoji 不会被拆开。
package splittext

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Kind 拆分粒度
type Kind int

const (
	Chars Kind = iota
	Words
	Lines
)

// ParseKind 解析 "chars" / "words" / "lines"
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chars", "char", "":
		return Chars, true
	case "words", "word":
		return Words, true
	case "lines", "line":
		return Lines, true
	}
	return Chars, false
}

// Fragment 拆分后的一段
type Fragment struct {
	Text string
	// Index 在同类非空白片段中的序号（用于交错动画）
	Index int
	// Line 所在行号
	Line int
	// Column 在行内的起始列（按显示宽度）
	Column int
	// Width 显示宽度（东亚宽字符为 2）
	Width int
	// Space 是否为空白；空白片段不参与动画
	Space bool
}

// Split 按粒度拆分文本
func Split(text string, kind Kind) []Fragment {
	switch kind {
	case Words:
		return splitWords(text)
	case Lines:
		return splitLines(strings.Split(text, "\n"))
	}
	return splitChars(text)
}

// Count 非空白片段数量
func Count(frags []Fragment) int {
	n := 0
	for _, f := range frags {
		if !f.Space {
			n++
		}
	}
	return n
}

func splitChars(text string) []Fragment {
	var out []Fragment
	index, line, col := 0, 0, 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\n" || cluster == "\r\n" {
			line++
			col = 0
			continue
		}
		f := Fragment{Text: cluster, Line: line, Column: col, Width: width, Space: isSpace(cluster)}
		if !f.Space {
			f.Index = index
			index++
		}
		out = append(out, f)
		col += width
	}
	return out
}

func splitWords(text string) []Fragment {
	var out []Fragment
	index := 0
	for line, l := range strings.Split(text, "\n") {
		col := 0
		state := -1
		rest := l
		for len(rest) > 0 {
			var word string
			word, rest, state = uniseg.FirstWordInString(rest, state)
			width := uniseg.StringWidth(word)
			f := Fragment{Text: word, Line: line, Column: col, Width: width, Space: isSpace(word)}
			if !f.Space {
				f.Index = index
				index++
			}
			out = append(out, f)
			col += width
		}
	}
	return out
}

func splitLines(lines []string) []Fragment {
	out := make([]Fragment, 0, len(lines))
	index := 0
	for i, l := range lines {
		f := Fragment{Text: l, Line: i, Width: uniseg.StringWidth(l), Space: strings.TrimSpace(l) == ""}
		if !f.Space {
			f.Index = index
			index++
		}
		out = append(out, f)
	}
	return out
}

// Wrap 按显示宽度贪心折行（在单词边界处断开），返回行片段
func Wrap(text string, maxWidth int) []Fragment {
	if maxWidth <= 0 {
		return Split(text, Lines)
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var cur strings.Builder
		curWidth := 0
		state := -1
		rest := para
		for len(rest) > 0 {
			var word string
			word, rest, state = uniseg.FirstWordInString(rest, state)
			w := uniseg.StringWidth(word)
			if curWidth > 0 && curWidth+w > maxWidth && !isSpace(word) {
				lines = append(lines, strings.TrimRightFunc(cur.String(), unicode.IsSpace))
				cur.Reset()
				curWidth = 0
			}
			if curWidth == 0 && isSpace(word) {
				continue
			}
			cur.WriteString(word)
			curWidth += w
		}
		lines = append(lines, strings.TrimRightFunc(cur.String(), unicode.IsSpace))
	}
	return splitLines(lines)
}

func isSpace(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}
