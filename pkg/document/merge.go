package document

// Merge builds the displayed list: query results first (tagged with
// _source=query_results), then background documents whose resolved id is not
// already listed. With no query results the background list is returned as is.
// Inputs are never mutated.
func Merge(query, background []SourceDocument) []SourceDocument {
	if len(query) == 0 {
		return background
	}

	seen := make(map[string]struct{}, len(query)+len(background))
	merged := make([]SourceDocument, 0, len(query)+len(background))

	for _, doc := range query {
		id := ResolveID(doc)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		tagged := doc.Clone()
		tagged.Metadata[MetaSource] = SourceQueryResults
		merged = append(merged, tagged)
	}

	for _, doc := range background {
		id := ResolveID(doc)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, doc)
	}
	return merged
}
