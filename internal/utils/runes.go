package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// IsHiragana checks if a rune is in the hiragana block
func IsHiragana(r rune) bool {
	return r >= 0x3041 && r <= 0x3096 || r == 'ー'
}

// IsKatakana checks if a rune is in the katakana block
func IsKatakana(r rune) bool {
	return r >= 0x30A1 && r <= 0x30FA || r == 'ー'
}

// IsKana checks if a string consists entirely of kana
func IsKana(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !IsHiragana(r) && !IsKatakana(r) {
			return false
		}
	}
	return true
}

// NormalizeReading folds katakana runes to their hiragana counterparts
// and trims surrounding whitespace. Dictionary keys are stored in
// hiragana, so lookups go through this first.
func NormalizeReading(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x30A1 && r <= 0x30F6 {
			r -= 0x60
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsValidReading checks if input should be processed for conversion.
// Returns false for empty strings, digits-only input, or input with
// characters outside the kana blocks and segment separators.
func IsValidReading(s string) bool {
	if len(s) == 0 {
		return false
	}
	onlyDigits := true
	for _, r := range s {
		if !unicode.IsDigit(r) {
			onlyDigits = false
		}
		if unicode.IsDigit(r) || r == '|' || r == 'ー' {
			continue
		}
		if !IsHiragana(r) && !IsKatakana(r) {
			return false
		}
	}
	return !onlyDigits
}

// FormatWithCommas renders an integer with thousand separators for CLI output
func FormatWithCommas(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
