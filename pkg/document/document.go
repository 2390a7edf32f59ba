package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SourceDocument is one retrievable unit of content as produced by the
// backend or converted from the recent-projects feed.
type SourceDocument struct {
	Content  string                 `json:"page_content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Provenance markers stored under MetaSource.
const (
	MetaSource = "_source"

	SourceQueryResults   = "query_results"
	SourceRecentProjects = "recent_projects"
	SourceWorkflow       = "document_workflow"
)

// Clone returns a copy with its own top-level metadata map.
func (d SourceDocument) Clone() SourceDocument {
	meta := make(map[string]interface{}, len(d.Metadata)+1)
	for k, v := range d.Metadata {
		meta[k] = v
	}
	return SourceDocument{Content: d.Content, Metadata: meta}
}

// Set writes a metadata key, allocating the map when needed.
func (d *SourceDocument) Set(key string, value interface{}) {
	if d.Metadata == nil {
		d.Metadata = make(map[string]interface{})
	}
	d.Metadata[key] = value
}

// Source returns the provenance marker, empty when untagged.
func (d SourceDocument) Source() string {
	s, _ := Scalar(d.Metadata[MetaSource])
	return s
}

// Scalar renders a metadata value as a trimmed string. Nil, blank strings and
// composite values (maps, slices) report false.
func Scalar(v interface{}) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		s = fmt.Sprintf("%v", t)
	case fmt.Stringer:
		s = t.String()
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
