package lsp

import (
	"github.com/google/uuid"
)

// Request is a JSON-RPC 2.0 request from rulecfg to an editor.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

func newRequest(method string, params any) *Request {
	return &Request{
		JSONRPC: "2.0",
		ID:      uuid.New().String(),
		Method:  method,
		Params:  params,
	}
}

// ApplyEdit wraps an edit in a workspace/applyEdit request.
func ApplyEdit(label string, edit WorkspaceEdit) *Request {
	return newRequest(MethodApplyEdit, ApplyWorkspaceEditParams{Label: label, Edit: edit})
}

// ShowSelection builds a window/showDocument request that focuses the
// document at uri with r selected.
func ShowSelection(uri string, r Range) *Request {
	return newRequest(MethodShowDocument, ShowDocumentParams{
		URI:       uri,
		TakeFocus: true,
		Selection: &r,
	})
}
