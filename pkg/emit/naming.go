package emit

import (
	"strings"
	"unicode"
)

// splitWords breaks a designer-assigned name into words. Designers use
// spaces, slashes, dashes, underscores and camel humps interchangeably.
func splitWords(name string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}

	var prev rune
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && prev != 0 && !unicode.IsUpper(prev) {
				flush()
			}
			cur.WriteRune(r)
		default:
			flush()
		}
		prev = r
	}
	flush()
	return words
}

// FormatName renders a name in the requested convention. Names with no
// usable characters fall back to "component".
func FormatName(name string, convention Naming) string {
	words := splitWords(name)
	if len(words) == 0 {
		words = []string{"component"}
	}

	switch convention {
	case NamingKebab:
		return strings.Join(words, "-")
	case NamingCamel:
		out := words[0]
		for _, w := range words[1:] {
			out += capitalize(w)
		}
		return out
	default: // pascal
		var out string
		for _, w := range words {
			out += capitalize(w)
		}
		return out
	}
}

// Identifier renders a name as a valid exported identifier (PascalCase),
// regardless of the configured class-name convention.
func Identifier(name string) string {
	id := FormatName(name, NamingPascal)
	if unicode.IsDigit(rune(id[0])) {
		id = "C" + id
	}
	return id
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
