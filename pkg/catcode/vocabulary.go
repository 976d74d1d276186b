package catcode

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// VocabularyFile represents the structure of a YAML vocabulary file.
type VocabularyFile struct {
	// Replace discards the default vocabulary instead of extending it.
	Replace bool          `yaml:"replace,omitempty"`
	Subtype []SubtypeRule `yaml:"subtype"`
}

// SubtypeRule declares the parameters a subtype takes.
type SubtypeRule struct {
	Text     string   `yaml:"text"`
	Required []string `yaml:"required,omitempty"`
	OneOf    []string `yaml:"one_of,omitempty"` // At least one of these is required
	Optional []string `yaml:"optional,omitempty"`
}

// Vocabulary is the set of known subtypes, ready for lookups.
type Vocabulary struct {
	Rules []SubtypeRule

	// Precomputed lookup map
	lookup map[string]SubtypeRule
}

// DefaultVocabularyFile returns the well-known subtypes in file form.
func DefaultVocabularyFile() *VocabularyFile {
	return &VocabularyFile{Subtype: getDefaultSubtypeRules()}
}

// DefaultVocabulary returns the vocabulary of the well-known subtypes.
func DefaultVocabulary() *Vocabulary {
	vocab := &Vocabulary{Rules: getDefaultSubtypeRules()}

	// Default rules should never conflict
	if err := vocab.BuildLookup(); err != nil {
		panic(fmt.Sprintf("Invalid default vocabulary: %v", err))
	}
	return vocab
}

// LoadVocabularyFile loads and parses a YAML vocabulary file.
func LoadVocabularyFile(filename string) (*VocabularyFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file '%s': %w", filename, err)
	}

	var file VocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in vocabulary file '%s': %w", filename, err)
	}

	return &file, nil
}

// ApplyVocabularyToDefaults merges file into the default vocabulary. A
// subtype in file replaces the default rule of the same name.
// Returns an error if file defines a subtype twice.
func ApplyVocabularyToDefaults(file *VocabularyFile) (*Vocabulary, error) {
	var rules []SubtypeRule
	if !file.Replace {
		rules = getDefaultSubtypeRules()
	}

	seen := make(map[string]bool)
	for _, rule := range file.Subtype {
		if seen[rule.Text] {
			return nil, fmt.Errorf("subtype '%s' is defined twice in the vocabulary file", rule.Text)
		}
		seen[rule.Text] = true

		i := slices.IndexFunc(rules, func(r SubtypeRule) bool { return r.Text == rule.Text })
		if i >= 0 {
			rules[i] = rule
		} else {
			rules = append(rules, rule)
		}
	}

	vocab := &Vocabulary{Rules: rules}
	if err := vocab.BuildLookup(); err != nil {
		return nil, err
	}
	return vocab, nil
}

// BuildLookup indexes the rules by subtype. It fails on a subtype defined
// twice, on a subtype or key that is not a word, and on a key listed in
// more than one role.
func (v *Vocabulary) BuildLookup() error {
	v.lookup = make(map[string]SubtypeRule, len(v.Rules))
	for _, rule := range v.Rules {
		if !IsWord(rule.Text) {
			return fmt.Errorf("subtype '%s' is not a word", rule.Text)
		}
		if _, exists := v.lookup[rule.Text]; exists {
			return fmt.Errorf("subtype '%s' is defined more than once", rule.Text)
		}

		roles := make(map[string]string)
		addKey := func(key, role string) error {
			if !IsWord(key) {
				return fmt.Errorf("key '%s' of subtype '%s' is not a word", key, rule.Text)
			}
			if existing, ok := roles[key]; ok {
				return fmt.Errorf("key '%s' of subtype '%s' is both %s and %s", key, rule.Text, existing, role)
			}
			roles[key] = role
			return nil
		}
		for _, key := range rule.Required {
			if err := addKey(key, "required"); err != nil {
				return err
			}
		}
		for _, key := range rule.OneOf {
			if err := addKey(key, "one_of"); err != nil {
				return err
			}
		}
		for _, key := range rule.Optional {
			if err := addKey(key, "optional"); err != nil {
				return err
			}
		}

		v.lookup[rule.Text] = rule
	}
	return nil
}

// Lookup returns the rule of subtype.
func (v *Vocabulary) Lookup(subtype string) (SubtypeRule, bool) {
	rule, ok := v.lookup[subtype]
	return rule, ok
}

// Violation describes how a code departs from the vocabulary.
type Violation struct {
	Subtype    string
	Unknown    bool     // The subtype is not in the vocabulary
	Missing    []string // Required keys that are absent
	OneOf      []string // Set when none of these keys is present
	Unexpected []string // Keys the subtype does not declare
}

func (e *Violation) Error() string {
	if e.Unknown {
		return fmt.Sprintf("unknown subtype '%s'", e.Subtype)
	}
	var problems []string
	if len(e.Missing) > 0 {
		problems = append(problems, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.OneOf) > 0 {
		problems = append(problems, "needs one of "+strings.Join(e.OneOf, ", "))
	}
	if len(e.Unexpected) > 0 {
		problems = append(problems, "unexpected "+strings.Join(e.Unexpected, ", "))
	}
	return fmt.Sprintf("subtype '%s': %s", e.Subtype, strings.Join(problems, "; "))
}

// Check compares code against the vocabulary. It returns nil or a
// *Violation.
func (v *Vocabulary) Check(code View) error {
	rule, ok := v.lookup[code.Subtype()]
	if !ok {
		return &Violation{Subtype: code.Subtype(), Unknown: true}
	}

	violation := &Violation{Subtype: rule.Text}
	for _, key := range rule.Required {
		if !code.ContainsKey(key) {
			violation.Missing = append(violation.Missing, key)
		}
	}
	if len(rule.OneOf) > 0 && !slices.ContainsFunc(rule.OneOf, code.ContainsKey) {
		violation.OneOf = rule.OneOf
	}
	for _, key := range code.Keys() {
		if !slices.Contains(rule.Required, key) && !slices.Contains(rule.OneOf, key) && !slices.Contains(rule.Optional, key) {
			violation.Unexpected = append(violation.Unexpected, key)
		}
	}

	if violation.Missing == nil && violation.OneOf == nil && violation.Unexpected == nil {
		return nil
	}
	return violation
}

func getDefaultSubtypeRules() []SubtypeRule {
	return []SubtypeRule{
		{Text: SubtypeAt, OneOf: []string{"code", "all"}},
		{Text: SubtypeFace, Required: []string{"id"}},
		{Text: SubtypeBFace, Required: []string{"id"}},
		{Text: SubtypeSFace, Required: []string{"id"}},
		{Text: SubtypeImage, Required: []string{"file"}, Optional: []string{"flash", "destruct"}},
		{Text: SubtypeRecord, Required: []string{"file"}, Optional: []string{"magic"}},
		{Text: SubtypeRps, Optional: []string{"type"}},
		{Text: SubtypeDice, Optional: []string{"type"}},
		{Text: SubtypeShake},
		{
			Text:     SubtypeMusic,
			Required: []string{"type"},
			OneOf:    []string{"id", "url"},
			Optional: []string{"style", "audio", "title", "content", "image"},
		},
		{Text: SubtypeShare, Required: []string{"url", "title"}, Optional: []string{"content", "image"}},
	}
}
