package sandbox

import (
	"encoding/base64"
	"strings"
)

// goStringQuote renders a Go string as a single-quoted JS string literal,
// matching the quote style every other literal printer in this engine
// emits. Only the handful of characters that would otherwise break out
// of the literal or corrupt the text are escaped; everything else
// (including non-ASCII) passes through unescaped.
func goStringQuote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func base64Decode(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
