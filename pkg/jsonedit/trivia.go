package jsonedit

import "strings"

// byteOrderMark is the UTF-8 encoding of U+FEFF.
const byteOrderMark = "\ufeff"

// IsBlank reports whether text holds no value at all: only JSON whitespace,
// line comments, and terminated block comments. An unterminated block
// comment is not blank, so it surfaces later as a parse error. A leading
// byte order mark counts as whitespace.
func IsBlank(text string) bool {
	text = strings.TrimPrefix(text, byteOrderMark)
	for i := 0; i < len(text); {
		switch c := text[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case strings.HasPrefix(text[i:], "//"):
			n := strings.IndexAny(text[i:], "\r\n")
			if n < 0 {
				return true
			}
			i += n
		case strings.HasPrefix(text[i:], "/*"):
			n := strings.Index(text[i+2:], "*/")
			if n < 0 {
				return false
			}
			i += n + 4
		default:
			return false
		}
	}
	return true
}

// Source returns the bytes to hand to the JSONC parser for text. A leading
// byte order mark is blanked to spaces, and a line comment that runs into the
// end of the text is terminated with a newline. Every byte offset into the
// result is also a valid offset into text.
func Source(text string) []byte {
	src := make([]byte, 0, len(text)+1)
	if strings.HasPrefix(text, byteOrderMark) {
		src = append(src, strings.Repeat(" ", len(byteOrderMark))...)
		text = text[len(byteOrderMark):]
	}
	src = append(src, text...)
	if endsInLineComment(text) {
		src = append(src, '\n')
	}
	return src
}

// endsInLineComment reports whether the end of text falls inside a // comment.
// String literals are skipped so that "http://..." values do not count.
func endsInLineComment(text string) bool {
	for i := 0; i < len(text); {
		switch {
		case text[i] == '"':
			i++
			for i < len(text) && text[i] != '"' {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			i++
		case strings.HasPrefix(text[i:], "//"):
			n := strings.IndexByte(text[i:], '\n')
			if n < 0 {
				return true
			}
			i += n + 1
		case strings.HasPrefix(text[i:], "/*"):
			n := strings.Index(text[i+2:], "*/")
			if n < 0 {
				return false
			}
			i += n + 4
		default:
			i++
		}
	}
	return false
}
