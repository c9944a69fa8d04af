// Package lsp builds the editor-protocol payloads rulecfg emits with --lsp:
// a workspace edit that applies an insertion plan, or a show-document
// request that selects an existing setting.
package lsp

import (
	"net/url"
	"path/filepath"

	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

// Position is a zero-based line and UTF-16 character offset.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextEdit replaces Range with NewText. An empty range is an insertion.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// VersionedTextDocumentIdentifier names a document. A nil Version means the
// document is not open in the editor.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version *int   `json:"version"`
}

// TextDocumentEdit groups the edits to one document.
type TextDocumentEdit struct {
	TextDocument VersionedTextDocumentIdentifier `json:"textDocument"`
	Edits        []TextEdit                      `json:"edits"`
}

// WorkspaceEdit is a set of document changes applied together.
type WorkspaceEdit struct {
	DocumentChanges []TextDocumentEdit `json:"documentChanges"`
}

// ApplyWorkspaceEditParams are the params of workspace/applyEdit.
type ApplyWorkspaceEditParams struct {
	Label string        `json:"label,omitempty"`
	Edit  WorkspaceEdit `json:"edit"`
}

// ShowDocumentParams are the params of window/showDocument.
type ShowDocumentParams struct {
	URI       string `json:"uri"`
	External  bool   `json:"external,omitempty"`
	TakeFocus bool   `json:"takeFocus,omitempty"`
	Selection *Range `json:"selection,omitempty"`
}

// Method names of the requests rulecfg produces.
const (
	MethodApplyEdit    = "workspace/applyEdit"
	MethodShowDocument = "window/showDocument"
)

// FromPosition converts a document position.
func FromPosition(p jsonedit.Position) Position {
	return Position{Line: p.Line, Character: p.Column}
}

// FromRange converts a document range.
func FromRange(r jsonedit.Range) Range {
	return Range{Start: FromPosition(r.Start), End: FromPosition(r.End)}
}

// FileURI returns the file:// URI of path, made absolute first.
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if len(u.Path) > 0 && u.Path[0] != '/' {
		// Windows drive paths.
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}

// EditFromPlan builds a workspace edit that inserts plan.Text at
// plan.Position in the document at uri.
func EditFromPlan(uri string, plan jsonedit.Plan) WorkspaceEdit {
	at := FromPosition(plan.Position)
	return WorkspaceEdit{
		DocumentChanges: []TextDocumentEdit{{
			TextDocument: VersionedTextDocumentIdentifier{URI: uri},
			Edits: []TextEdit{{
				Range:   Range{Start: at, End: at},
				NewText: plan.Text,
			}},
		}},
	}
}
