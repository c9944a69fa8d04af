package jsonedit

import "github.com/cockroachdb/errors"

// ApplyInsertion splices plan into text. It fails with ErrOutOfRange when the
// plan's position does not fit text, which usually means the plan was
// computed against a different snapshot.
func ApplyInsertion(text string, plan Plan) (string, error) {
	off, err := NewLineTable(text).Offset(plan.Position)
	if err != nil {
		return "", errors.Wrap(err, "applying insertion")
	}
	return text[:off] + plan.Text + text[off:], nil
}

// Ensure plans and applies in one step. It returns text unchanged, and
// changed == false, when path already exists.
func Ensure(text string, path Path, value any, opts ...Option) (result string, changed bool, err error) {
	plan, ok, err := InsertIfNotExists(text, path, value, opts...)
	if err != nil || !ok {
		return text, false, err
	}
	result, err = ApplyInsertion(text, plan)
	if err != nil {
		return text, false, err
	}
	return result, true, nil
}
