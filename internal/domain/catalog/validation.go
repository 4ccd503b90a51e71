package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/jhoicas/vortex-catalogo/internal/domain"
)

const (
	maxEmailLength    = 150
	minPasswordLength = 6
	// límite de bcrypt
	maxPasswordBytes = 72
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// DDD opcional entre paréntesis, 4 o 5 dígitos, 4 dígitos; separadores - . o espacio.
	phonePattern = regexp.MustCompile(`^\(?(\d{2})\)?[-. ]?(\d{4,5})[-. ]?(\d{4})$`)
)

// IsEmail indica si s tiene formato de email. Se usa también para decidir si una credencial es email o teléfono.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateEmail valida formato y longitud.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: el email es obligatorio", domain.ErrInvalidInput)
	}
	if len(email) > maxEmailLength || !IsEmail(email) {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return nil
}

// ValidatePhone valida un teléfono con DDD: 10 u 11 dígitos.
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("%w: el teléfono es obligatorio", domain.ErrInvalidInput)
	}
	n := len(DigitsOnly(phone))
	if n < 10 || n > 11 || !phonePattern.MatchString(phone) {
		return fmt.Errorf("%w: teléfono inválido, use DDD + número", domain.ErrInvalidInput)
	}
	return nil
}

// ValidatePassword exige al menos 6 caracteres con una letra y un número, y como máximo 72 bytes.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: la contraseña no puede superar %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return fmt.Errorf("%w: la contraseña debe contener letras y números", domain.ErrInvalidInput)
	}
	return nil
}

// DigitsOnly elimina todo lo que no sea dígito.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
