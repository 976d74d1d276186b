package catcode

import (
	"iter"
	"strings"
)

// Match is the location of a code token in a text. Start and End are byte
// offsets, so text[Start:End] == Text.
type Match struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Text      string `json:"text"`
	Namespace string `json:"namespace"`
	Subtype   string `json:"subtype"`
}

// Matcher finds code tokens in free text. Its zero value matches codes of
// every namespace.
type Matcher struct {
	namespace string
}

// AnyMatcher returns a matcher for codes of any namespace.
func AnyMatcher() Matcher { return Matcher{} }

// Namespace returns the namespace the matcher is restricted to, or "" when
// it matches every namespace.
func (m Matcher) Namespace() string { return m.namespace }

// All yields the matches in text from left to right. Matches never overlap
// and never nest.
func (m Matcher) All(text string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for _, loc := range codeRegex.FindAllStringSubmatchIndex(text, -1) {
			namespace := text[loc[2]:loc[3]]
			if m.namespace != "" && namespace != m.namespace {
				continue
			}
			match := Match{
				Start:     loc[0],
				End:       loc[1],
				Text:      text[loc[0]:loc[1]],
				Namespace: namespace,
				Subtype:   text[loc[4]:loc[5]],
			}
			if !yield(match) {
				return
			}
		}
	}
}

// FindAll returns every match in text.
func (m Matcher) FindAll(text string) []Match {
	var matches []Match
	for match := range m.All(text) {
		matches = append(matches, match)
	}
	return matches
}

// Find returns the index-th match of subtype, counting from zero. An empty
// subtype counts every match.
func (m Matcher) Find(text, subtype string, index int) (Match, bool) {
	if index < 0 {
		return Match{}, false
	}
	for match := range m.All(text) {
		if subtype != "" && match.Subtype != subtype {
			continue
		}
		if index == 0 {
			return match, true
		}
		index--
	}
	return Match{}, false
}

// Split cuts text into its text pieces and code tokens, in order. Empty text
// pieces are left out and nothing is decoded.
func (m Matcher) Split(text string) []string {
	var pieces []string
	last := 0
	for match := range m.All(text) {
		if match.Start > last {
			pieces = append(pieces, text[last:match.Start])
		}
		pieces = append(pieces, match.Text)
		last = match.End
	}
	if last < len(text) {
		pieces = append(pieces, text[last:])
	}
	return pieces
}

// RemoveOptions controls Matcher.Remove.
type RemoveOptions struct {
	// Subtype restricts removal to codes of this subtype. Empty removes all.
	Subtype string
	// KeepSpace keeps the surrounding white space of each remaining piece.
	KeepSpace bool
	// KeepBlank keeps pieces that are empty once trimmed.
	KeepBlank bool
	// Delimiter joins the remaining pieces.
	Delimiter string
}

// Remove deletes code tokens from text and joins what is left.
func (m Matcher) Remove(text string, opts RemoveOptions) string {
	var pieces []string
	keep := func(piece string) {
		if !opts.KeepSpace {
			piece = strings.TrimSpace(piece)
		}
		if piece == "" && !opts.KeepBlank {
			return
		}
		pieces = append(pieces, piece)
	}

	last := 0
	for match := range m.All(text) {
		if opts.Subtype != "" && match.Subtype != opts.Subtype {
			continue
		}
		keep(text[last:match.Start])
		last = match.End
	}
	keep(text[last:])
	return strings.Join(pieces, opts.Delimiter)
}

// Param returns the decoded value of key in the index-th code of subtype.
// The boolean is false when there is no such code or key. An error means
// the code was found but is not well formed.
func (m Matcher) Param(text, key, subtype string, index int) (string, bool, error) {
	match, ok := m.Find(text, subtype, index)
	if !ok {
		return "", false, nil
	}
	code, err := Wildcat(match.Namespace).ParseLazy(match.Text)
	if err != nil {
		return "", false, err
	}
	value, ok := code.Get(key)
	return value, ok, nil
}

// Codes parses every match in text. It stops at the first token that is not
// a well-formed code.
func (m Matcher) Codes(text string) ([]*Code, error) {
	var codes []*Code
	for match := range m.All(text) {
		code, err := Wildcat(match.Namespace).ParseLazy(match.Text)
		if err != nil {
			return codes, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}
