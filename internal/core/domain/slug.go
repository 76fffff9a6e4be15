package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// GenerateSlug creates a file-name friendly slug from a project name.
// Accents are folded first, so "Dirección Técnica" -> "direccion-tecnica".
func GenerateSlug(name string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, name)
	if err != nil {
		folded = name
	}

	slug := strings.ToLower(folded)
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")

	if slug == "" {
		return "listado"
	}
	return slug
}
