package utils

import "strings"

// IsDigits проверяет, что строка непустая и состоит только из цифр ASCII.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DigitsOnly удаляет из строки всё, кроме цифр.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone приводит телефон к 10 цифрам колумбийского номера:
// убирает всё, кроме цифр, и срезает код страны 57 у 12-значного номера.
func NormalizePhone(phone string) string {
	s := DigitsOnly(phone)
	if len(s) == 12 && strings.HasPrefix(s, "57") {
		return s[2:]
	}
	return s
}

// StripCardSeparators убирает из номера карты пробельные символы и дефисы.
func StripCardSeparators(number string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f', '-':
			return -1
		}
		return r
	}, number)
}
