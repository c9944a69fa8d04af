package jsonedit

import "strings"

// bootstrap plans a complete top-level object for a document without one.
// Empty text, or text holding only a byte order mark, gets the object at its
// end. Whitespace and comments are kept and the object is appended after
// them, on a fresh line so that a trailing line comment cannot swallow it.
func bootstrap(lines *LineTable, path Path, value []byte, width int) Plan {
	nl := lines.Break(0)
	obj := indentLines(skeletonObject(path, value, width), "", nl) + nl
	if strings.TrimPrefix(lines.text, byteOrderMark) == "" {
		return Plan{Position: lines.End(), Text: obj}
	}
	if !strings.HasSuffix(lines.text, "\n") && !strings.HasSuffix(lines.text, "\r") {
		obj = nl + obj
	}
	return Plan{Position: lines.End(), Text: obj}
}
