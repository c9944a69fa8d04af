// Package jsonedit inserts properties into JSON-with-comments documents
// without disturbing the text around them.
//
// The package never re-serializes a document. Instead it computes a [Plan]:
// a single (position, text) insertion that adds a dotted property path with a
// default value when, and only when, that path is missing. Comments, blank
// lines, key order, and the formatting of every unrelated region survive
// byte for byte.
//
// # Basic Usage
//
//	path, _ := jsonedit.ParsePath("analyzers.core.rules.no-unused-params.level")
//	plan, ok, err := jsonedit.InsertIfNotExists(text, path, "warning")
//	if err != nil {
//		return err
//	}
//	if ok {
//		text, err = jsonedit.ApplyInsertion(text, plan)
//	}
//
// # Snapshots
//
// A plan encodes a line/column position computed against one specific text.
// Applying it to any other text is an error at best and silent corruption at
// worst, so callers that read documents from disk must treat
// read, plan, apply, and write as one unit and recompute when the source
// changes underneath them. [ApplyInsertion] reports [ErrOutOfRange] when the
// position no longer fits.
//
// # Positions
//
// Lines and columns are zero-based. Columns count UTF-16 code units, the unit
// used by editor protocols, so plans can be handed to an editor as-is.
// Line breaks are "\n", "\r\n", and a lone "\r".
//
// # Error Handling
//
// Every failure maps to exactly one sentinel, checked with errors.Is:
//
//   - [ErrInvalidArgument]: malformed call, such as an empty path
//   - [ErrParse]: non-blank text that is not a JSON object; see [SyntaxError]
//   - [ErrStructuralConflict]: a non-object value blocks the path; see [ConflictError]
//   - [ErrOutOfRange]: a position that does not fit the text
//
// A false ok result is reserved for "the path already exists".
//
// # Duplicate Keys
//
// When an object repeats a key, the first occurrence wins and later
// duplicates are ignored.
package jsonedit
