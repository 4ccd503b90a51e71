package http

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minNameLength = 5
	maxNameLength = 100
)

// validateFullName exige nombre y apellido, solo letras y espacios, entre 5 y 100 caracteres.
// Devuelve el mensaje de error o "" si es válido.
func validateFullName(name string) string {
	name = strings.TrimSpace(name)
	if len(strings.Fields(name)) < 2 {
		return "el nombre debe contener al menos nombre y apellido"
	}
	if n := utf8.RuneCountInString(name); n < minNameLength || n > maxNameLength {
		return "el nombre debe tener entre 5 y 100 caracteres"
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return "el nombre debe contener solo letras y espacios"
		}
	}
	return ""
}
