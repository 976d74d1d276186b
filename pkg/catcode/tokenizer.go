package catcode

import (
	"errors"
	"strings"
)

// TokenizerOptions configures a Tokenizer.
type TokenizerOptions struct {
	// Namespace selects the codes to recognize. The zero value means the
	// standard namespace.
	Namespace Namespace
	// Strict turns a head that does not start a well-formed code into an
	// exception segment and stops the scan. Otherwise such a head is text.
	Strict bool
}

// Tokenizer splits text into text and code segments, tracking line and
// column positions.
type Tokenizer struct {
	input     string
	position  int
	line      int
	column    int
	namespace Namespace
	strict    bool

	// Start of the pending text segment
	textPosition int
	textStart    Position

	segments []*Segment
}

// NewTokenizer creates a new tokenizer for the standard namespace.
func NewTokenizer(input string) *Tokenizer {
	return NewTokenizerWithOptions(input, TokenizerOptions{})
}

// NewTokenizerWithOptions creates a new tokenizer instance with custom options.
func NewTokenizerWithOptions(input string, opts TokenizerOptions) *Tokenizer {
	namespace := opts.Namespace
	if namespace.Name() == "" {
		namespace = Standard()
	}
	return &Tokenizer{
		input:     input,
		line:      1,
		column:    1,
		namespace: namespace,
		strict:    opts.Strict,
		textStart: Position{Line: 1, Col: 1},
		segments:  make([]*Segment, 0),
	}
}

// Tokenize processes the input and returns its segments. On a *ScanError the
// segments up to and including the exception segment are returned with it.
func (t *Tokenizer) Tokenize() ([]*Segment, error) {
	head := t.namespace.Head()
	for t.position < len(t.input) {
		idx := strings.Index(t.input[t.position:], head)
		if idx < 0 {
			t.advance(len(t.input) - t.position)
			break
		}
		t.advance(idx)
		if err := t.nextCode(head); err != nil {
			return t.segments, err
		}
	}
	t.flushText()
	return t.segments, nil
}

// nextCode handles the head at the current position.
func (t *Tokenizer) nextCode(head string) error {
	rest := t.input[t.position:]

	var parseErr error
	if loc := leadingCodeRegex.FindStringIndex(rest); loc != nil {
		token := rest[:loc[1]]
		code, err := t.namespace.Parse(token)
		if err == nil {
			t.flushText()
			start := t.here()
			t.advance(len(token))
			t.segments = append(t.segments, NewCodeSegment(token, code, Span{Start: start, End: t.here()}))
			t.markText()
			return nil
		}
		parseErr = err
	}

	if !t.strict {
		t.advance(len(head))
		return nil
	}

	t.flushText()
	text := unterminated(rest)
	var mce *MalformedCodeError
	if !errors.As(parseErr, &mce) {
		mce = &MalformedCodeError{Text: text, Reason: "unterminated or ill-formed code"}
	}
	start := t.here()
	t.advance(len(text))
	t.segments = append(t.segments, NewExceptionSegment(text, mce.Reason, Span{Start: start, End: t.here()}))
	t.markText()
	return &ScanError{Start: start, Err: mce}
}

// unterminated returns the prefix of s that a broken code occupies: up to
// and including the first ']', or up to the first line break.
func unterminated(s string) string {
	end := strings.IndexAny(s, "]\r\n")
	switch {
	case end < 0:
		return s
	case s[end] == ']':
		return s[:end+1]
	default:
		return s[:end]
	}
}

func (t *Tokenizer) here() Position {
	return Position{Line: t.line, Col: t.column}
}

func (t *Tokenizer) markText() {
	t.textPosition = t.position
	t.textStart = t.here()
}

// flushText emits the text between the last mark and the current position.
func (t *Tokenizer) flushText() {
	if t.position > t.textPosition {
		text := t.input[t.textPosition:t.position]
		t.segments = append(t.segments, NewTextSegment(text, Span{Start: t.textStart, End: t.here()}))
	}
	t.markText()
}

func (t *Tokenizer) advance(n int) {
	for i := 0; i < n && t.position < len(t.input); i++ {
		if t.input[t.position] == '\n' {
			t.line++
			t.column = 1
		} else {
			t.column++
		}
		t.position++
	}
}
