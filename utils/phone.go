package utils

import (
	"errors"
	"strings"
	"unicode"
)

var ErrInvalidPhone = errors.New("phone number must contain 10 digits")

// CleanPhoneNumber strips formatting and an optional 91 country code, leaving 10 digits.
func CleanPhoneNumber(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	if len(digits) != 10 {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// MaskPhone hides all but the last four digits for logging.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
