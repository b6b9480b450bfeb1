package validation

import (
	"regexp"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// emailPattern is deliberately loose; the backend is the final authority.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	if !emailPattern.MatchString(value) {
		v[field] = "invalid_email"
	}
}

func MinLen(field, value string, minLen int, v Violations) {
	if len([]rune(value)) < minLen {
		v[field] = "too_short"
	}
}
