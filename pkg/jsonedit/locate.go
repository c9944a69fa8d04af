package jsonedit

// Locate returns the span of the value at path. ok is false when the path
// does not exist or the document is blank. Parse failures and conflicts are
// reported the same way as by InsertIfNotExists.
func Locate(text string, path Path) (r Range, ok bool, err error) {
	if err := path.Validate(); err != nil {
		return Range{}, false, err
	}
	tree, err := Parse(text)
	if err != nil {
		return Range{}, false, err
	}
	id, matched, err := tree.Resolve(path)
	if err != nil || matched < len(path) {
		return Range{}, false, err
	}
	return tree.Range(id), true, nil
}

// Lookup returns the raw source text of the value at path.
func Lookup(text string, path Path) (raw string, ok bool, err error) {
	if err := path.Validate(); err != nil {
		return "", false, err
	}
	tree, err := Parse(text)
	if err != nil {
		return "", false, err
	}
	id, matched, err := tree.Resolve(path)
	if err != nil || matched < len(path) {
		return "", false, err
	}
	return tree.Raw(id), true, nil
}
