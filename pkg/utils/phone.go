package utils

import "strings"

// NormalizeKenyanPhone converts a Safaricom-style mobile number to the
// 2547XXXXXXXX form the STK push APIs require. Accepted inputs are
// 2547XXXXXXXX, 07XXXXXXXX and 7XXXXXXXX, optionally with a leading "+" and
// spaces, dashes or parentheses.
func NormalizeKenyanPhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	cleaned = strings.TrimPrefix(cleaned, "+")

	if !isDigits(cleaned) {
		return "", ErrInvalidPhone
	}

	switch {
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "2547"):
		return cleaned, nil
	case len(cleaned) == 10 && strings.HasPrefix(cleaned, "07"):
		return "254" + cleaned[1:], nil
	case len(cleaned) == 9 && strings.HasPrefix(cleaned, "7"):
		return "254" + cleaned, nil
	}
	return "", ErrInvalidPhone
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
