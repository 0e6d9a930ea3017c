package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

const adminPasswordSpecials = "@$!%*?&"

// strongAdminPassword requires at least eight characters drawn from letters,
// digits and @$!%*?&, with at least one of each class.
func strongAdminPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(adminPasswordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}
