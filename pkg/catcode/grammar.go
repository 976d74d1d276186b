package catcode

import (
	"regexp"
	"strings"
)

const (
	// StandardNamespace is the namespace of standard cat codes.
	StandardNamespace = "CAT"

	codeStart         = "["
	codeEnd           = "]"
	namespaceEnd      = ":"
	paramSeparator    = ","
	keyValueSeparator = "="
)

// Regular expressions for code recognition
var (
	wordRegex = regexp.MustCompile(`^\w+$`)

	// codeRegex matches [NAMESPACE:subtype(,param)*]. A parameter may not
	// contain brackets or line breaks, so codes never nest: an unterminated
	// '[' is skipped and matching resumes at the next '['.
	codeRegex = regexp.MustCompile(`\[(\w+):(\w+)((?:,[^\[\]\r\n]*)?)\]`)

	// leadingCodeRegex only matches a code at the start of its input.
	leadingCodeRegex = regexp.MustCompile(`^` + codeRegex.String())
)

// Head returns the text every code of namespace starts with, e.g. "[CAT:".
func Head(namespace string) string {
	return codeStart + namespace + namespaceEnd
}

// IsWord reports whether s can be used as a namespace, subtype or key.
func IsWord(s string) bool {
	return wordRegex.MatchString(s)
}

func checkNamespace(namespace string) error {
	if !IsWord(namespace) {
		return malformed(namespace, "invalid namespace %q", namespace)
	}
	return nil
}

func checkSubtype(subtype string) error {
	if !IsWord(subtype) {
		return malformed(subtype, "invalid subtype %q", subtype)
	}
	return nil
}

func checkKey(key string) error {
	if !IsWord(key) {
		return malformed(key, "invalid parameter key %q", key)
	}
	return nil
}

// checkRaw accepts a value in the form EncodeParam produces.
func checkRaw(raw string) error {
	if i := strings.IndexAny(raw, "[]=,\r\n"); i >= 0 {
		return malformed(raw, "escaped value contains %q", raw[i:i+1])
	}
	return nil
}

// splitToken strips the head and the closing bracket of token and splits the
// rest on commas. The first piece is the subtype, the others are the raw
// "key=value" fragments, still escaped.
func splitToken(namespace, token string) (string, []string, error) {
	head := Head(namespace)
	if !strings.HasPrefix(token, head) {
		return "", nil, malformed(token, "does not start with %q", head)
	}
	if !strings.HasSuffix(token, codeEnd) {
		return "", nil, malformed(token, "does not end with %q", codeEnd)
	}

	if !IsWord(namespace) {
		return "", nil, malformed(token, "invalid namespace %q", namespace)
	}

	body := token[len(head) : len(token)-len(codeEnd)]
	if strings.ContainsAny(body, "[]\r\n") {
		return "", nil, malformed(token, "contains a nested bracket or a line break")
	}

	parts := strings.Split(body, paramSeparator)
	if !IsWord(parts[0]) {
		return "", nil, malformed(token, "invalid subtype %q", parts[0])
	}
	return parts[0], parts[1:], nil
}

// splitFragment splits a raw "key=value" fragment at its first '='.
func splitFragment(token, fragment string) (string, string, error) {
	key, raw, ok := strings.Cut(fragment, keyValueSeparator)
	if !ok {
		return "", "", malformed(token, "parameter %q has no %q", fragment, keyValueSeparator)
	}
	if !IsWord(key) {
		return "", "", malformed(token, "invalid parameter key %q", key)
	}
	return key, raw, nil
}

// namespaceOf extracts the namespace of a token without validating the rest.
func namespaceOf(token string) (string, error) {
	if !strings.HasPrefix(token, codeStart) {
		return "", malformed(token, "does not start with %q", codeStart)
	}
	end := strings.Index(token, namespaceEnd)
	if end < 0 {
		return "", malformed(token, "has no namespace separator %q", namespaceEnd)
	}
	namespace := token[len(codeStart):end]
	if !IsWord(namespace) {
		return "", malformed(token, "invalid namespace %q", namespace)
	}
	return namespace, nil
}
