package annotation

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// decodeEscapes decodes backslash escapes the way a Python string literal
// would: \t, \n, \\, \', \", \xhh, \uhhhh, \Uhhhhhhhh and octal. Unknown or
// truncated escapes are kept verbatim.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		if s[0] != '\\' {
			r, size := utf8.DecodeRuneInString(s)
			b.WriteRune(r)
			s = s[size:]
			continue
		}
		if len(s) >= 2 && (s[1] == '\'' || s[1] == '"') {
			b.WriteByte(s[1])
			s = s[2:]
			continue
		}
		r, _, tail, err := strconv.UnquoteChar(s, 0)
		if err != nil {
			b.WriteByte('\\')
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = tail
	}
	return b.String()
}
