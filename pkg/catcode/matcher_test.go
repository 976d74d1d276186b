package catcode

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatcherFindAll(t *testing.T) {
	text := "hello [CAT:at,code=1] world [CAT:face,id=2]"
	matches := Standard().Matcher().FindAll(text)

	expected := []Match{
		{Start: 6, End: 21, Text: "[CAT:at,code=1]", Namespace: "CAT", Subtype: "at"},
		{Start: 28, End: 43, Text: "[CAT:face,id=2]", Namespace: "CAT", Subtype: "face"},
	}
	if diff := cmp.Diff(expected, matches); diff != "" {
		t.Errorf("Matches mismatch (-want +got):\n%s", diff)
	}
	for _, m := range matches {
		if text[m.Start:m.End] != m.Text {
			t.Errorf("Expected offsets to cover '%s', got '%s'", m.Text, text[m.Start:m.End])
		}
	}
}

func TestMatcherNamespaces(t *testing.T) {
	text := "[CAT:at,code=1][CQ:face,id=2][CATX:dice]"
	tests := []struct {
		name     string
		matcher  Matcher
		expected []string
	}{
		{"Standard", Standard().Matcher(), []string{"[CAT:at,code=1]"}},
		{"Wildcat", Wildcat("CQ").Matcher(), []string{"[CQ:face,id=2]"}},
		{"Any", AnyMatcher(), []string{"[CAT:at,code=1]", "[CQ:face,id=2]", "[CATX:dice]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for m := range tt.matcher.All(text) {
				got = append(got, m.Text)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Matches mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatcherResynchronizes(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Unterminated", "[CAT:at,code=1 [CAT:face,id=2]", []string{"[CAT:face,id=2]"}},
		{"Nested", "[CAT:at,code=[CAT:face,id=2]]", []string{"[CAT:face,id=2]"}},
		{"Line break", "[CAT:at,code=\n1] [CAT:shake]", []string{"[CAT:shake]"}},
		{"Escaped brackets", "&#91;CAT:at&#93; [CAT:dice]", []string{"[CAT:dice]"}},
		{"Bad subtype", "[CAT:a b] [CAT:rps]", []string{"[CAT:rps]"}},
		{"None", "plain text", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, m := range Standard().Matcher().FindAll(tt.text) {
				got = append(got, m.Text)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Matches mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatcherFind(t *testing.T) {
	text := "[CAT:at,code=1] a [CAT:face,id=9] b [CAT:at,code=2]"
	m := Standard().Matcher()

	if got, ok := m.Find(text, "at", 1); !ok || got.Text != "[CAT:at,code=2]" {
		t.Errorf("Expected second at code, got '%s' (found: %v)", got.Text, ok)
	}
	if got, ok := m.Find(text, "", 1); !ok || got.Subtype != "face" {
		t.Errorf("Expected face at index 1, got '%s' (found: %v)", got.Text, ok)
	}
	if _, ok := m.Find(text, "at", 2); ok {
		t.Errorf("Expected no third at code")
	}
	if _, ok := m.Find(text, "at", -1); ok {
		t.Errorf("Expected a negative index to find nothing")
	}
}

func TestMatcherSplit(t *testing.T) {
	got := Standard().Matcher().Split("hi [CAT:at,code=1][CAT:shake] bye")
	expected := []string{"hi ", "[CAT:at,code=1]", "[CAT:shake]", " bye"}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Split mismatch (-want +got):\n%s", diff)
	}
}

func TestMatcherRemove(t *testing.T) {
	text := " a [CAT:at,code=1] b [CAT:face,id=2]  "
	tests := []struct {
		name     string
		opts     RemoveOptions
		expected string
	}{
		{"Default", RemoveOptions{}, "ab"},
		{"Delimiter", RemoveOptions{Delimiter: " "}, "a b"},
		{"Keep space", RemoveOptions{KeepSpace: true}, " a  b   "},
		{"Keep blank", RemoveOptions{KeepBlank: true, Delimiter: "|"}, "a|b|"},
		{"Subtype", RemoveOptions{Subtype: "face", KeepSpace: true}, " a [CAT:at,code=1] b   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Standard().Matcher().Remove(text, tt.opts); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestMatcherParam(t *testing.T) {
	text := "x [CQ:image,file=a&#44;b.jpg] y [CQ:image,file=c.jpg] z [CQ:record,file]"
	m := Wildcat("CQ").Matcher()

	tests := []struct {
		name    string
		key     string
		subtype string
		index   int
		want    string
		found   bool
		wantErr bool
	}{
		{"First image", "file", "image", 0, "a,b.jpg", true, false},
		{"Second of any subtype", "file", "", 1, "c.jpg", true, false},
		{"Absent key", "url", "image", 0, "", false, false},
		{"Absent code", "file", "image", 2, "", false, false},
		{"Malformed code", "file", "record", 0, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := m.Param(text, tt.key, tt.subtype, tt.index)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedCode) {
					t.Errorf("Expected a malformed code error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if ok != tt.found || got != tt.want {
				t.Errorf("Expected '%s' (found: %v), got '%s' (found: %v)", tt.want, tt.found, got, ok)
			}
		})
	}
}

func TestMatcherCodes(t *testing.T) {
	codes, err := AnyMatcher().Codes("[CAT:at,code=1] and [CQ:face,id=2]")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(codes) != 2 {
		t.Fatalf("Expected 2 codes, got %d", len(codes))
	}
	if codes[0].Namespace() != "CAT" || codes[1].Namespace() != "CQ" {
		t.Errorf("Unexpected namespaces %s, %s", codes[0].Namespace(), codes[1].Namespace())
	}

	codes, err = Standard().Matcher().Codes("[CAT:at,code=1] [CAT:at,code]")
	if err == nil {
		t.Errorf("Expected an error for a fragment without '='")
	}
	if len(codes) != 1 {
		t.Errorf("Expected the codes before the error, got %d", len(codes))
	}
}
