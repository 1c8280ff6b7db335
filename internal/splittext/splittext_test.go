package splittext

import "testing"

func TestChars(t *testing.T) {
	frags := Split("Hi 👋🏽!", Chars)
	// H i ␠ 👋🏽 !
	if len(frags) != 5 {
		t.Fatalf("fragments = %d, want 5: %+v", len(frags), frags)
	}
	if frags[3].Text != "👋🏽" || frags[3].Width != 2 {
		t.Errorf("emoji fragment = %+v", frags[3])
	}
	if !frags[2].Space || Count(frags) != 4 {
		t.Errorf("space handling: %+v count=%d", frags[2], Count(frags))
	}
	if frags[4].Index != 3 || frags[4].Column != 5 {
		t.Errorf("last fragment = %+v", frags[4])
	}
}

func TestCharsCombiningAndCJK(t *testing.T) {
	frags := Split("é唱片", Chars)
	if len(frags) != 3 {
		t.Fatalf("fragments = %+v", frags)
	}
	if frags[0].Text != "é" || frags[0].Width != 1 {
		t.Errorf("combining sequence = %+v", frags[0])
	}
	if frags[1].Width != 2 || frags[2].Column != 3 {
		t.Errorf("wide characters = %+v %+v", frags[1], frags[2])
	}
}

func TestCharsMultiline(t *testing.T) {
	frags := Split("ab\ncd", Chars)
	if len(frags) != 4 || frags[2].Line != 1 || frags[2].Column != 0 || frags[3].Index != 3 {
		t.Errorf("fragments = %+v", frags)
	}
}

func TestWords(t *testing.T) {
	frags := Split("spin the record", Words)
	var words []string
	for _, f := range frags {
		if !f.Space {
			words = append(words, f.Text)
		}
	}
	want := []string{"spin", "the", "record"}
	if len(words) != len(want) {
		t.Fatalf("words = %q", words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, words[i], want[i])
		}
	}
	last := frags[len(frags)-1]
	if last.Index != 2 || last.Column != 9 {
		t.Errorf("last word = %+v", last)
	}
}

func TestLines(t *testing.T) {
	frags := Split("first verse\n\nchorus", Lines)
	if len(frags) != 3 || !frags[1].Space || frags[2].Index != 1 {
		t.Errorf("lines = %+v", frags)
	}
}

func TestWrap(t *testing.T) {
	frags := Wrap("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}
	if len(frags) != len(want) {
		t.Fatalf("lines = %+v", frags)
	}
	for i := range want {
		if frags[i].Text != want[i] {
			t.Errorf("line %d = %q, want %q", i, frags[i].Text, want[i])
		}
		if frags[i].Width > 10 {
			t.Errorf("line %d too wide: %d", i, frags[i].Width)
		}
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"chars": Chars, "Words": Words, "lines": Lines, "": Chars} {
		if got, ok := ParseKind(in); !ok || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseKind("paragraphs"); ok {
		t.Error("unknown kind accepted")
	}
}
