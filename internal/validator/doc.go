// Package validator checks rule configuration documents and reports the
// problems it finds.
//
// # Core Concepts
//
//   - [Severity]: Distinguishes between blocking errors and non-blocking warnings.
//   - [Issue]: A single problem with the dotted field path and, when known,
//     the zero-based position where it starts.
//   - [Result]: Aggregates the issues for one file.
//
// # Rule settings
//
// [ValidateRules] parses a JSONC document and checks every rule under the
// rules path:
//
//	result := validator.ValidateRules("rulecfg.json", text, jsonedit.MustParsePath("analyzers.core.rules"))
//	if result.HasErrors() {
//		validator.NewReporter(os.Stdout, validator.FormatText).Report(result)
//	}
package validator
