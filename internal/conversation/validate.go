package conversation

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinGuests = 1
	MaxGuests = 50

	// NoComment is what the user types to skip the comment step.
	NoComment = "-"
)

type Field string

const (
	FieldDate   Field = "date"
	FieldTime   Field = "time"
	FieldGuests Field = "guests"
	FieldName   Field = "name"
	FieldPhone  Field = "phone"
)

type Reason int

const (
	ReasonEmpty Reason = iota + 1
	ReasonNotANumber
	ReasonOutOfRange
)

func (r Reason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty"
	case ReasonNotANumber:
		return "not a number"
	case ReasonOutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// ValidationError rejects one answer; the dialogue stays on the same step.
type ValidationError struct {
	Field  Field
	Reason Reason
	Input  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Reason)
}

// ValidateText accepts any non-empty answer after trimming.
func ValidateText(field Field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", &ValidationError{Field: field, Reason: ReasonEmpty, Input: raw}
	}
	return value, nil
}

// ValidateGuests parses the guest count and checks it is within
// [MinGuests, MaxGuests].
func ValidateGuests(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	guests, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ValidationError{Field: FieldGuests, Reason: ReasonNotANumber, Input: raw}
	}
	if guests < MinGuests || guests > MaxGuests {
		return 0, &ValidationError{Field: FieldGuests, Reason: ReasonOutOfRange, Input: raw}
	}
	return guests, nil
}

// NormalizeComment never fails: the NoComment sentinel and blanks become "".
func NormalizeComment(raw string) string {
	value := strings.TrimSpace(raw)
	if value == NoComment {
		return ""
	}
	return value
}
