// Package validate turns raw user input into a page count for the imposition
// calculator.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinPages = 1
	MaxPages = 10000
)

// Kind classifies a rejected page count.
type Kind string

const (
	EmptyInput   Kind = "empty_input"
	NotAnInteger Kind = "not_an_integer"
	BelowMinimum Kind = "below_minimum"
	AboveMaximum Kind = "above_maximum"
)

// ValidationError reports why an input was rejected.
type ValidationError struct {
	Kind  Kind
	Input string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyInput:
		return "validation error: page count is empty"
	case NotAnInteger:
		return fmt.Sprintf("validation error: %q is not a whole number", e.Input)
	case BelowMinimum:
		return fmt.Sprintf("validation error: page count %s is below %d", e.Input, MinPages)
	case AboveMaximum:
		return fmt.Sprintf("validation error: page count %s is above %d", e.Input, MaxPages)
	}
	return fmt.Sprintf("validation error: %s", e.Kind)
}

// KindOf returns the kind of a *ValidationError anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return "", false
}

// PageCount parses raw as a page count in [MinPages, MaxPages].
func PageCount(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ValidationError{Kind: EmptyInput, Input: raw}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		var numErr *strconv.NumError
		// Out-of-range integers are still integers.
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return 0, &ValidationError{Kind: BelowMinimum, Input: s}
			}
			return 0, &ValidationError{Kind: AboveMaximum, Input: s}
		}
		return 0, &ValidationError{Kind: NotAnInteger, Input: s}
	}
	return Range(n)
}

// Range checks an already-parsed page count.
func Range(n int) (int, error) {
	switch {
	case n < MinPages:
		return 0, &ValidationError{Kind: BelowMinimum, Input: strconv.Itoa(n)}
	case n > MaxPages:
		return 0, &ValidationError{Kind: AboveMaximum, Input: strconv.Itoa(n)}
	}
	return n, nil
}
