package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// CoerceJSON turns a model completion into a parsed JSON value. Model
// output is not guaranteed to be pure JSON: it may wrap the object in
// prose, carry control characters, HTML fragments, or use single-quoted
// pseudo-JSON. The pipeline is:
//
//  1. strip non-printable control characters
//  2. drop HTML tag fragments
//  3. take the first balanced {...} or [...] span
//  4. parse; on failure, normalize single quotes to double and reparse
//
// The result is a map[string]any or []any depending on the span found.
func CoerceJSON(completion string) (any, *Error) {
	cleaned := stripControl(completion)
	cleaned = htmlTagRe.ReplaceAllString(cleaned, "")

	span, ok := bracketSpan(cleaned)
	if !ok {
		return nil, &Error{Reason: ReasonNoJSON}
	}

	var v any
	if err := json.Unmarshal([]byte(span), &v); err == nil {
		return v, nil
	}

	normalized := strings.ReplaceAll(span, "'", `"`)
	if err := json.Unmarshal([]byte(normalized), &v); err != nil {
		return nil, &Error{Reason: ReasonBadJSON, Err: err}
	}
	return v, nil
}

// CoerceObject is CoerceJSON restricted to an object result.
func CoerceObject(completion string) (map[string]any, *Error) {
	v, cerr := CoerceJSON(completion)
	if cerr != nil {
		return nil, cerr
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &Error{Reason: ReasonBadJSON}
	}
	return obj, nil
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		if r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// bracketSpan returns the first greedy balanced {...} or [...] region.
// Greedy matches the source behavior: from the first opener to its
// matching closer at depth zero, tracking string literals so braces
// inside values do not end the span early.
func bracketSpan(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}

	open := s[start]
	var closer byte
	if open == '{' {
		closer = '}'
	} else {
		closer = ']'
	}

	depth := 0
	inString := false
	var quote byte
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == quote {
				inString = false
			}
			continue
		}
		switch c {
		case '"', '\'':
			inString = true
			quote = c
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// RequireFields checks that every named field is present and non-empty.
// A sequence value must have at least one element; a string must be
// non-blank. The first failing field is reported.
func RequireFields(obj map[string]any, fields ...string) *Error {
	for _, f := range fields {
		v, ok := obj[f]
		if !ok || v == nil {
			return &Error{Reason: ReasonMissingField, Field: f}
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) == "" {
				return &Error{Reason: ReasonMissingField, Field: f}
			}
		case []any:
			if len(t) == 0 {
				return &Error{Reason: ReasonMissingField, Field: f}
			}
		}
	}
	return nil
}
