// Package sanitize normalises and validates raw field values before they
// reach the services. Every function is pure: malformed input yields a
// *domain.ValidationError, never a panic.
//
// SanitizeString's denylist is a second line of defence only. The store
// adapters always bind parameters.
package sanitize

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/epicevents/crm/internal/core/domain"
)

const (
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 128

	maxAmountLength   = 32
	minAmountExponent = -10
	maxAmountExponent = 12

	// DefaultMaxLength bounds free-text fields when the caller has no
	// tighter limit.
	DefaultMaxLength = 255
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern    = regexp.MustCompile(`^[\d\s\-+().]{8,20}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
)

// denylist is applied in order; each entry is replaced by "_" wherever it
// occurs, ignoring case.
var denylist = compileDenylist([]string{"<", ">", `"`, "'", `\`, "/", ";", "--", "/*", "*/", "xp_", "sp_"})

func compileDenylist(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(p)))
	}
	return out
}

var timestampLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

func invalid(field, reason string) error {
	return &domain.ValidationError{Field: field, Reason: reason}
}

// ValidateEmail returns the trimmed, lower-cased address.
func ValidateEmail(s string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(s))
	if email == "" {
		return "", invalid("email", "must not be empty")
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return "", invalid("email", fmt.Sprintf("is too long (max %d characters)", maxEmailLength))
	}
	if !emailPattern.MatchString(email) {
		return "", invalid("email", "invalid format")
	}
	return email, nil
}

// ValidatePhone accepts an empty value since the phone is optional.
func ValidatePhone(s string) (string, error) {
	phone := strings.TrimSpace(s)
	if phone == "" {
		return "", nil
	}
	if !phonePattern.MatchString(phone) {
		return "", invalid("phone", "must be 8-20 characters of digits, spaces and + - ( ) .")
	}
	return phone, nil
}

// ValidateUsername returns the trimmed username.
func ValidateUsername(s string) (string, error) {
	username := strings.TrimSpace(s)
	if username == "" {
		return "", invalid("username", "must not be empty")
	}
	if !usernamePattern.MatchString(username) {
		return "", invalid("username", "must be 3-50 letters, digits, hyphens or underscores")
	}
	return username, nil
}

// ValidatePassword checks length and character classes. The password is
// never trimmed or otherwise altered.
func ValidatePassword(s string) error {
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0:
		return invalid("password", "must not be empty")
	case n < minPasswordLength:
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	case n > maxPasswordLength:
		return invalid("password", fmt.Sprintf("is too long (max %d characters)", maxPasswordLength))
	}

	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return invalid("password", "must contain an uppercase letter, a lowercase letter and a digit")
	}
	return nil
}

// ValidateAmount parses a monetary amount. Spaces (including grouping
// spaces) are ignored and a comma is read as the decimal separator. The
// result is rounded to cents.
func ValidateAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		if r == ',' {
			return '.'
		}
		return r
	}, raw)
	if cleaned == "" {
		return decimal.Zero, invalid("amount", "must not be empty")
	}
	if len(cleaned) > maxAmountLength {
		return decimal.Zero, invalid("amount", "invalid format")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, invalid("amount", "invalid format")
	}
	// Comparing or rounding rescales to the exponent, so bound it first.
	if exp := amount.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return decimal.Zero, invalid("amount", "out of range")
	}
	if amount.IsNegative() {
		return decimal.Zero, invalid("amount", "must not be negative")
	}
	if amount.GreaterThan(domain.MaxAmount) {
		return decimal.Zero, invalid("amount", "is too large (max 999999999.99)")
	}
	return amount.Round(2), nil
}

// ValidateInteger parses an integral value within [min, max].
func ValidateInteger(raw string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid("value", "must be a whole number")
	}
	if n < min {
		return 0, invalid("value", fmt.Sprintf("must be at least %d", min))
	}
	if n > max {
		return 0, invalid("value", fmt.Sprintf("must not exceed %d", max))
	}
	return n, nil
}

// ValidateTimestamp accepts RFC 3339 as well as "2006-01-02 15:04:05" and a
// bare date. Values without a zone are read as UTC.
func ValidateTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, invalid("date", "must not be empty")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, invalid("date", "expected YYYY-MM-DD HH:MM:SS or RFC 3339")
}

// SanitizeString trims s, truncates it to maxLength runes, drops control
// characters other than tab, newline and carriage return, escapes HTML unless
// allowSpecial is set and finally neutralises the denylisted sequences.
func SanitizeString(s string, maxLength int, allowSpecial bool) string {
	s = strings.TrimSpace(s)
	if maxLength > 0 && utf8.RuneCountInString(s) > maxLength {
		s = string([]rune(s)[:maxLength])
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)

	if !allowSpecial {
		s = html.EscapeString(s)
	}

	for _, re := range denylist {
		s = re.ReplaceAllString(s, "_")
	}
	return s
}

// SanitizeLikePattern escapes the wildcard characters of a LIKE pattern. Store
// adapters that add free-text filters pass user input through it.
func SanitizeLikePattern(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
