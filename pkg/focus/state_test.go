package focus

import (
	"testing"

	"asistentas-gateway/pkg/document"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueIsUnfocused(t *testing.T) {
	var s State
	assert.False(t, s.IsFocused())
	assert.Equal(t, KindUnfocused, s.Kind())
	_, ok := s.DocumentID()
	assert.False(t, ok)
	assert.Equal(t, Route{Endpoint: EndpointChat}, s.Route())
}

func TestFocusedRoute(t *testing.T) {
	doc := document.SourceDocument{Metadata: map[string]interface{}{"uuid": "abc", "title": "Mokykla"}}
	s := Focused("abc", doc)

	assert.True(t, s.IsFocused())
	id, ok := s.DocumentID()
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
	assert.Equal(t, "Mokykla", s.Title())
	assert.Equal(t, Route{Endpoint: EndpointDocumentChat, DocumentID: "abc"}, s.Route())
	assert.Equal(t, "FOCUSED(abc)", s.String())
}

func TestUnfocusedAfterFocused(t *testing.T) {
	s := Focused("abc", document.SourceDocument{})
	assert.True(t, s.IsFocused())
	s = Unfocused()

	_, ok := s.Document()
	assert.False(t, ok)
	assert.Equal(t, "", s.Title())
	assert.Equal(t, EndpointChat, s.Route().Endpoint)
}
