package urlstrategy

import (
	"net/url"
	"strings"
	"unicode"
)

// latinFold maps accented Latin letters onto their ASCII base letter.
var latinFold = map[rune]rune{}

func init() {
	groups := map[rune]string{
		'A': "ÀÁÂÃÄÅ", 'a': "àáâãäå",
		'E': "ÈÉÊË", 'e': "èéêë",
		'I': "ÌÍÎÏ", 'i': "ìíîï",
		'O': "ÒÓÔÕÖØ", 'o': "òóôõöø",
		'U': "ÙÚÛÜ", 'u': "ùúûü",
		'C': "Ç", 'c': "ç",
		'N': "Ñ", 'n': "ñ",
		'Y': "Ý", 'y': "ýÿ",
	}
	for base, letters := range groups {
		for _, r := range letters {
			latinFold[r] = base
		}
	}
}

// FileName folds an attachment name to printable ASCII so the last segment
// of an image URL stays readable. Accented Latin letters lose their
// diacritics; anything else outside ASCII becomes '-'.
func FileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && unicode.IsPrint(r):
			b.WriteRune(r)
		case latinFold[r] != 0:
			b.WriteRune(latinFold[r])
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// imageSegment is the escaped trailing path segment of an image URL.
func imageSegment(image ImageRef) string {
	name := FileName(image.Name)
	if name == "" {
		name = image.ContentID.String()
	}
	return url.PathEscape(name)
}
