package content

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Escape protects the backslashes of already decoded text so that Unescape
// returns it unchanged.
func Escape(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

// Unescape decodes property-style escape sequences: \" \' \\ \t \n \r \f \b,
// \uXXXX and any other escaped character, which stands for itself.
// A trailing lone backslash is kept.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'b':
			b.WriteByte('\b')
		case 'u':
			if i+4 < len(s) {
				if r, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(r))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size - 1
		}
	}
	return b.String()
}
