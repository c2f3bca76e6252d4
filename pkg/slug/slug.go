// Package slug normaliza nombres de personas a identificadores de cuenta
// (usuario de red, correo) sin tildes ni espacios.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold elimina las marcas diacríticas: "Pérez Muñoz" -> "Perez Munoz".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Username deriva un usuario "nombre.apellido" en minúsculas a partir del nombre completo.
// Solo conserva letras y dígitos ASCII; las palabras se unen con punto.
func Username(fullName string) string {
	words := strings.Fields(strings.ToLower(Fold(fullName)))
	parts := make([]string, 0, len(words))
	for _, w := range words {
		var b strings.Builder
		for _, r := range w {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}
	return strings.Join(parts, ".")
}

// Address une un usuario ya derivado con el dominio de correo ("" si falta alguno).
func Address(username, domain string) string {
	domain = strings.TrimPrefix(domain, "@")
	if username == "" || domain == "" {
		return ""
	}
	return username + "@" + domain
}
