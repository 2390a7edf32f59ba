package store

import (
	"testing"
	"time"

	"asistentas-gateway/pkg/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConversationIDOnlyOnce(t *testing.T) {
	s := NewSession("s-1", "projektu-zvalgas", "model", time.Now())

	s.SetConversationID("")
	assert.Equal(t, "", s.ConversationID)

	s.SetConversationID("c-1")
	s.SetConversationID("c-2")
	assert.Equal(t, "c-1", s.ConversationID)
}

func TestDocumentSetsRemerge(t *testing.T) {
	s := NewSession("s-1", "projektu-zvalgas", "model", time.Now())
	bg := []document.SourceDocument{
		{Metadata: map[string]interface{}{"id": "1"}},
		{Metadata: map[string]interface{}{"id": "2"}},
	}

	s.SetBackgroundDocuments(bg)
	assert.Equal(t, bg, s.DisplayedDocuments)

	s.SetQueryDocuments([]document.SourceDocument{{Metadata: map[string]interface{}{"id": "2"}}})
	require.Len(t, s.DisplayedDocuments, 2)
	assert.Equal(t, "2", document.ResolveID(s.DisplayedDocuments[0]))
	assert.Equal(t, document.SourceQueryResults, s.DisplayedDocuments[0].Source())

	doc, ok := s.FindDisplayed("1")
	assert.True(t, ok)
	assert.Equal(t, "1", document.ResolveID(doc))

	_, ok = s.FindDisplayed("missing")
	assert.False(t, ok)
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewSession("s-1", "projektu-zvalgas", "model", time.Now())
	s.Append(RoleSystem, "hello", time.Now())

	snap := s.Snapshot()
	s.Append(RoleUser, "more", time.Now())

	assert.Len(t, snap.Messages, 1)
	assert.Len(t, s.Messages, 2)
}
