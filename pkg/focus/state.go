// Package focus models which single document, if any, a conversation is
// scoped to, and the backend route that follows from it.
package focus

import (
	"asistentas-gateway/pkg/document"
)

type Kind int

const (
	KindUnfocused Kind = iota
	KindFocused
)

func (k Kind) String() string {
	if k == KindFocused {
		return "FOCUSED"
	}
	return "UNFOCUSED"
}

// State is Unfocused or Focused(documentID). The zero value is Unfocused.
type State struct {
	kind       Kind
	documentID string
	document   document.SourceDocument
}

func Unfocused() State {
	return State{kind: KindUnfocused}
}

// Focused scopes the conversation to documentID. doc is kept for display.
func Focused(documentID string, doc document.SourceDocument) State {
	return State{kind: KindFocused, documentID: documentID, document: doc}
}

func (s State) Kind() Kind { return s.kind }

func (s State) IsFocused() bool { return s.kind == KindFocused }

func (s State) DocumentID() (string, bool) {
	if s.kind != KindFocused {
		return "", false
	}
	return s.documentID, true
}

func (s State) Document() (document.SourceDocument, bool) {
	if s.kind != KindFocused {
		return document.SourceDocument{}, false
	}
	return s.document, true
}

// Title is the resolved title of the focused document, empty when unfocused.
func (s State) Title() string {
	if s.kind != KindFocused {
		return ""
	}
	return document.ResolveTitle(s.document)
}

func (s State) String() string {
	if s.kind == KindFocused {
		return "FOCUSED(" + s.documentID + ")"
	}
	return "UNFOCUSED"
}
