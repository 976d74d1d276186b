package catcode

import (
	"encoding/json"
)

// SegmentKind tells text from code in a scanned input.
type SegmentKind string

const (
	TextSegment      SegmentKind = "t" // Plain text, decoded
	CodeSegment      SegmentKind = "c" // A well-formed code token
	ExceptionSegment SegmentKind = "X" // A malformed code token, strict scans only
)

// Position represents a line and column position in the scanned text.
// Both start at 1 and columns count bytes.
type Position struct {
	Line int `json:"line" yaml:"line"`
	Col  int `json:"col" yaml:"col"`
}

// Span represents the start and end positions of a segment. End is
// exclusive.
type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// MarshalJSON encodes a span as [startLine, startCol, endLine, endCol].
func (s Span) MarshalJSON() ([]byte, error) {
	arr := [4]int{s.Start.Line, s.Start.Col, s.End.Line, s.End.Col}
	return json.Marshal(arr)
}

// UnmarshalJSON implements custom JSON unmarshaling for Span.
func (s *Span) UnmarshalJSON(data []byte) error {
	var arr [4]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	s.Start = Position{Line: arr[0], Col: arr[1]}
	s.End = Position{Line: arr[2], Col: arr[3]}
	return nil
}

// Segment is a run of scanned text: either plain text or a single code.
type Segment struct {
	Text string      `json:"text" yaml:"text"`
	Span Span        `json:"span" yaml:"span"`
	Kind SegmentKind `json:"kind" yaml:"kind"`

	// Text segment fields
	Value *string `json:"value,omitempty" yaml:"value,omitempty"` // Decoded text

	// Code segment fields
	Namespace string  `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Subtype   string  `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Params    []Param `json:"params,omitempty" yaml:"params,omitempty"`

	// Exception segment fields
	Reason *string `json:"reason,omitempty" yaml:"reason,omitempty"`

	code *Code
}

// NewTextSegment creates a text segment. The decoded text is kept in Value.
func NewTextSegment(text string, span Span) *Segment {
	value := DecodeText(text)
	return &Segment{
		Text:  text,
		Span:  span,
		Kind:  TextSegment,
		Value: &value,
	}
}

// NewCodeSegment creates a code segment for a parsed code.
func NewCodeSegment(text string, code *Code, span Span) *Segment {
	return &Segment{
		Text:      text,
		Span:      span,
		Kind:      CodeSegment,
		Namespace: code.Namespace(),
		Subtype:   code.Subtype(),
		Params:    code.Entries(),
		code:      code,
	}
}

// NewExceptionSegment creates an exception segment with an error reason.
func NewExceptionSegment(text, reason string, span Span) *Segment {
	return &Segment{
		Text:   text,
		Span:   span,
		Kind:   ExceptionSegment,
		Reason: &reason,
	}
}

// Code returns the code of a code segment, or nil for other kinds. A
// segment decoded from JSON or YAML rebuilds its code from its fields, and
// returns nil if they do not name a valid code.
func (s *Segment) Code() *Code {
	if s.Kind != CodeSegment {
		return nil
	}
	if s.code == nil && IsWord(s.Namespace) {
		s.code, _ = Wildcat(s.Namespace).FromPairs(s.Subtype, s.Params...)
	}
	return s.code
}
