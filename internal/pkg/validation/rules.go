package validation

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// PhonePattern accepts an optional leading + and 7-15 digits with common separators
	PhonePattern = `^\+?[0-9][0-9\s\-()]{6,18}$`

	PasswordMinLength = 6
	// PasswordMaxBytes is the most bcrypt will hash
	PasswordMaxBytes = 72

	NameMinLength = 2
	NameMaxLength = 100

	// Graduation years accepted relative to the current year
	GraduationYearsBack  = 50
	GraduationYearsAhead = 6
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
	Phone *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	Phone: regexp.MustCompile(PhonePattern),
}

// NormalizeEmail lower-cases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks the address shape after normalization
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(NormalizeEmail(email))
}

// HasEmailDomain reports whether email belongs to domain. An empty domain allows any address.
func HasEmailDomain(email, domain string) bool {
	domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
	if domain == "" {
		return true
	}
	return strings.HasSuffix(NormalizeEmail(email), "@"+domain)
}

// IsValidName checks a display name's trimmed length
func IsValidName(name string) bool {
	n := len([]rune(strings.TrimSpace(name)))
	return n >= NameMinLength && n <= NameMaxLength
}

// IsValidPhone checks a phone number loosely
func IsValidPhone(phone string) bool {
	return CompiledPatterns.Phone.MatchString(strings.TrimSpace(phone))
}

// IsValidGraduationYear accepts years from GraduationYearsBack ago up to GraduationYearsAhead from now
func IsValidGraduationYear(year int, now time.Time) bool {
	current := now.Year()
	return year >= current-GraduationYearsBack && year <= current+GraduationYearsAhead
}

// IsHTTPURL reports whether raw is an absolute http(s) URL
func IsHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
