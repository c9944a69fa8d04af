// Package query runs jq expressions over rule configuration documents.
package query

import (
	"context"
	"encoding/json"

	"github.com/itchyny/gojq"

	"github.com/thoreinstein/rulecfg/internal/convert"
	"github.com/thoreinstein/rulecfg/internal/errors"
)

// ErrInvalidQuery indicates a jq expression that does not parse or compile.
var ErrInvalidQuery = errors.New("invalid query")

// Query is a compiled jq expression.
type Query struct {
	src  string
	code *gojq.Code
}

// Compile parses and compiles expr. Variables are made available to the
// expression as $name.
func Compile(expr string, variables ...string) (*Query, error) {
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidQuery, "%s", err)
	}
	names := make([]string, len(variables))
	for i, v := range variables {
		names[i] = "$" + v
	}
	code, err := gojq.Compile(parsed, gojq.WithVariables(names))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidQuery, "%s", err)
	}
	return &Query{src: expr, code: code}, nil
}

// String returns the source expression.
func (q *Query) String() string { return q.src }

// Run evaluates the query against a JSONC document and returns every result.
// values bind the variables named at Compile, in order.
func (q *Query) Run(ctx context.Context, document []byte, values ...any) ([]any, error) {
	std, err := convert.Standardize(document)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(std, &input); err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}

	var results []any
	iter := q.code.RunWithContext(ctx, input, values...)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return results, errors.Wrapf(err, "evaluating %q", q.src)
		}
		results = append(results, v)
	}
	return results, nil
}

// Rules is the query behind "rule list": one {code, level} object per
// configured rule under $rules, a path given as an array of keys.
const Rules = `getpath($rules) // {} | to_entries[] | {code: .key, level: (.value.level // null)}`
