// Package headline validates candidate headlines before they are sent for
// classification. Validate and Measure share the same counting rules so the
// live counters in the UI can never disagree with submission.
package headline

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Limits applied to every headline.
const (
	MinChars = 10
	MaxChars = 500
	MinWords = 3
)

// Sentinel reasons, matched with errors.Is.
var (
	ErrTooShort    = errors.New("too short")
	ErrTooLong     = errors.New("too long")
	ErrTooFewWords = errors.New("too few words")
)

// ValidationError reports the first rule a headline failed.
type ValidationError struct {
	Reason error
	Stats  Stats
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ErrTooShort:
		return fmt.Sprintf("Headline must be at least %d characters long", MinChars)
	case ErrTooLong:
		return fmt.Sprintf("Headline must be less than %d characters", MaxChars)
	case ErrTooFewWords:
		return fmt.Sprintf("Headline must contain at least %d words", MinWords)
	default:
		return "Headline is invalid"
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// Headline is a trimmed headline that passed Validate.
type Headline string

func (h Headline) String() string {
	return string(h)
}

// Stats holds the counters shown while typing.
type Stats struct {
	Chars int // runes after trimming
	Words int // whitespace-separated non-empty tokens
}

// Measure counts characters and words using the rules Validate applies.
func Measure(s string) Stats {
	trimmed := strings.TrimSpace(s)
	return Stats{
		Chars: utf8.RuneCountInString(trimmed),
		Words: len(strings.Fields(trimmed)),
	}
}

// Validate checks s against the length and word rules in order; the first
// failing rule wins.
func Validate(s string) (Headline, error) {
	stats := Measure(s)
	switch {
	case stats.Chars < MinChars:
		return "", &ValidationError{Reason: ErrTooShort, Stats: stats}
	case stats.Chars > MaxChars:
		return "", &ValidationError{Reason: ErrTooLong, Stats: stats}
	case stats.Words < MinWords:
		return "", &ValidationError{Reason: ErrTooFewWords, Stats: stats}
	}
	return Headline(strings.TrimSpace(s)), nil
}

// Valid reports whether the counters satisfy every rule.
func (s Stats) Valid() bool {
	return s.Chars >= MinChars && s.Chars <= MaxChars && s.Words >= MinWords
}
