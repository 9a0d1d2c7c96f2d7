package req

import (
	"fmt"
	"strings"

	"github.com/xy-planning-network/artmatch"
)

// A ValidationError is a field whose value breaks the rule set on it.
type ValidationError struct {
	Field string `json:"field"`
	Got   any    `json:"got"`
	Rule  string `json:"rule,omitempty"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %v breaks %s", e.Field, e.Got, e.Rule)
}

// ValidationErrors collects every field of a payload that failed validation.
// It unwraps to artmatch.ErrNotValid.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.String()
	}

	return strings.Join(msgs, "; ")
}

// Has asserts whether field failed validation.
func (v ValidationErrors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}

	return false
}

// Without returns the issues with fields other than field.
func (v ValidationErrors) Without(field string) ValidationErrors {
	var rest ValidationErrors
	for _, e := range v {
		if e.Field != field {
			rest = append(rest, e)
		}
	}

	return rest
}

func (ValidationErrors) Unwrap() error { return artmatch.ErrNotValid }
