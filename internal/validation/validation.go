// Package validation holds the stateless sanitizers applied to every bot command
// before it reaches the rate limiter, the withdrawal queue or the multisig manager.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Result is the outcome of a single validation. Sanitized is only meaningful when Valid.
type Result[T any] struct {
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
	Sanitized T      `json:"sanitized"`
}

func ok[T any](v T) Result[T] {
	return Result[T]{Valid: true, Sanitized: v}
}

func fail[T any](format string, args ...any) Result[T] {
	return Result[T]{Valid: false, Error: fmt.Sprintf(format, args...)}
}

var validate = validator.New()

var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)\bon\w+\s*=`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?i)<\s*iframe`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)expression\s*\(`),
	regexp.MustCompile(`(?i)<\s*object`),
	regexp.MustCompile(`(?i)<\s*embed`),
}

func containsSuspicious(raw string) bool {
	for _, p := range suspiciousPatterns {
		if p.MatchString(raw) {
			return true
		}
	}
	return false
}

// ValidateUserID accepts a Discord snowflake: 17 to 19 digits.
func ValidateUserID(raw string) Result[string] {
	id := strings.TrimSpace(raw)
	if err := validate.Var(id, "required,number,min=17,max=19"); err != nil {
		return fail[string]("invalid user id: must be a 17-19 digit snowflake")
	}
	return ok(id)
}

// ValidateUserInput bounds free text such as memos and rejection reasons.
func ValidateUserInput(raw string, maxLength int) Result[string] {
	input := strings.TrimSpace(raw)
	if maxLength > 0 && len([]rune(input)) > maxLength {
		return fail[string]("input exceeds maximum length of %d characters", maxLength)
	}
	if containsSuspicious(input) {
		return fail[string]("input contains forbidden content")
	}
	return ok(input)
}
