package extract

import "fmt"

type Reason string

const (
	// ReasonNoJSON means the completion contained no balanced bracket span.
	ReasonNoJSON Reason = "NO_JSON"
	// ReasonBadJSON means a span was found but did not parse.
	ReasonBadJSON Reason = "BAD_JSON"
	// ReasonMissingField means the parsed object lacked a required key or
	// the key held an empty value.
	ReasonMissingField Reason = "MISSING_FIELD"
	// ReasonUpstream means the completion endpoint itself failed.
	ReasonUpstream Reason = "UPSTREAM"
	// ReasonInvalidInput means the model judged the input not to be a
	// resume at all. Retrying the same input will not help.
	ReasonInvalidInput Reason = "INVALID_INPUT"
)

// Error is the typed failure for one extraction attempt. Every reason
// except ReasonUpstream-with-context-cancelled is retryable.
type Error struct {
	Reason Reason
	Field  string // set for ReasonMissingField
	Err    error
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonMissingField:
		return fmt.Sprintf("extraction: missing field %q", e.Field)
	case ReasonNoJSON:
		return "extraction: no JSON object in completion"
	case ReasonBadJSON:
		return fmt.Sprintf("extraction: completion JSON did not parse: %v", e.Err)
	case ReasonInvalidInput:
		return "extraction: input does not look like a resume"
	default:
		return fmt.Sprintf("extraction: upstream failure: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Terminal reports whether another attempt with the same input could
// possibly succeed.
func (e *Error) Terminal() bool { return e.Reason == ReasonInvalidInput }
