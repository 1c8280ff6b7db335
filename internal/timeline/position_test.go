package timeline

import (
	"errors"
	"testing"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		kind   positionKind
		offset float64
		label  string
	}{
		{"末尾", "", posEnd, 0, ""},
		{"绝对时间", "1.5", posAbsolute, 1.5, ""},
		{"上一段开始", "<", posPrevStart, 0, ""},
		{"上一段开始偏移", "<0.2", posPrevStart, 0.2, ""},
		{"上一段结束提前", ">-0.1", posPrevEnd, -0.1, ""},
		{"上一段开始长写法", "<+=0.2", posPrevStart, 0.2, ""},
		{"上一段结束长写法", ">-=0.1", posPrevEnd, -0.1, ""},
		{"末尾之后", "+=0.5", posRelEnd, 0.5, ""},
		{"末尾重叠", "-=0.25", posRelEnd, -0.25, ""},
		{"标签", "chorus", posLabel, 0, "chorus"},
		{"标签偏移", "chorus+=1", posLabel, 1, "chorus"},
		{"标签负偏移", "chorus-=0.5", posLabel, -0.5, "chorus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePosition(tt.token)
			if err != nil {
				t.Fatalf("ParsePosition(%q) error: %v", tt.token, err)
			}
			if p.kind != tt.kind || !near(p.offset, tt.offset) || p.label != tt.label {
				t.Errorf("ParsePosition(%q) = %+v, want kind=%v offset=%v label=%q", tt.token, p, tt.kind, tt.offset, tt.label)
			}
		})
	}
}

func TestParsePositionErrors(t *testing.T) {
	for _, token := range []string{"<abc", ">1x", "+=", "-=oops", "verse+=x", "<+=", ">-=x"} {
		if _, err := ParsePosition(token); !errors.Is(err, ErrBadPosition) {
			t.Errorf("ParsePosition(%q) error = %v, want ErrBadPosition", token, err)
		}
	}
}

func TestPos(t *testing.T) {
	if got := Pos(2.5); got != "2.5" {
		t.Errorf("Pos(2.5) = %q", got)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"0.5", To(0.5)},
		{"+=360", By(360)},
		{"-=20", By(-20)},
		{" 1 ", To(1)},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.in)
		if err != nil {
			t.Fatalf("ParseValue(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseValue(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseValue("wide"); err == nil {
		t.Error("ParseValue(\"wide\") should fail")
	}
}

func TestParseOrder(t *testing.T) {
	if o, err := ParseOrder("random"); err != nil || o != OrderRandom {
		t.Errorf("ParseOrder(random) = %v, %v", o, err)
	}
	if o, err := ParseOrder(""); err != nil || o != OrderSequential {
		t.Errorf("ParseOrder(\"\") = %v, %v", o, err)
	}
	if _, err := ParseOrder("spiral"); err == nil {
		t.Error("ParseOrder(spiral) should fail")
	}
}
