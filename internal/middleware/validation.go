package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
)

// Request limits of the analysis API.
const (
	MaxResultsLimit   = 50
	MaxTopicsLimit    = 20
	MaxIdeasLimit     = 20
	MaxNiches         = 5
	MaxNicheNameLen   = 100
	DefaultMaxResults = 10
	DefaultTopN       = 10
	DefaultNicheTopN  = 5
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateTopN applies def to an unset (zero) value and checks the result
// against 1..limit.
func ValidateTopN(field string, value, def, limit int) (int, string) {
	if value == 0 {
		return def, ""
	}
	if value < 1 || value > limit {
		return 0, fmt.Sprintf("%s must be between 1 and %d", field, limit)
	}
	return value, ""
}

// ValidateNicheNames checks the niche count and every niche name.
func ValidateNicheNames(names []string) string {
	if len(names) > MaxNiches {
		return fmt.Sprintf("at most %d niches can be compared", MaxNiches)
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return "niche names must not be empty"
		}
		if utf8.RuneCountInString(name) > MaxNicheNameLen {
			return fmt.Sprintf("niche names must be at most %d characters", MaxNicheNameLen)
		}
	}
	return ""
}

// RequireFields reports the first of fields missing from a decoded JSON
// object. A present key with an empty value is not missing.
func RequireFields(raw map[string]json.RawMessage, fields ...string) string {
	for _, f := range fields {
		if v, ok := raw[f]; !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return f + " is required"
		}
	}
	return ""
}
