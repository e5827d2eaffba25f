package services

import (
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// FormatPhoneNumber normalizes an owner phone number for storage: digits
// only, keeping a leading + when the caller supplied one.
func FormatPhoneNumber(phoneNumber string) string {
	phoneNumber = strings.TrimSpace(phoneNumber)
	international := strings.HasPrefix(phoneNumber, "+")

	digits := nonDigit.ReplaceAllString(phoneNumber, "")
	if digits == "" {
		return ""
	}
	if international {
		return "+" + digits
	}
	return digits
}
