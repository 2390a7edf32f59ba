package mapper

import (
	"strings"

	"asistentas-gateway/pkg/backend"
	"asistentas-gateway/pkg/document"
)

const defaultProjectTitle = "Kvietimas pateikti pasiūlymą"

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

// ProjectToDocument turns a recent-project record into a sidebar document.
// Original keys are kept; the standard keys the normalizer reads are only
// filled in when missing.
func (m *DocumentMapper) ProjectToDocument(p backend.Project) document.SourceDocument {
	meta := make(map[string]interface{}, len(p)+16)
	for k, v := range p {
		meta[k] = v
	}

	id, hasID := document.Scalar(p["id"])
	if hasID {
		meta["uuid"] = id
		meta["id"] = id
	}
	meta[document.MetaSource] = document.SourceRecentProjects

	summary, _ := document.Scalar(p["summary"])
	location, _ := document.Scalar(p["location"])
	deadline, _ := document.Scalar(p["deadline"])

	name := m.projectTitle(p, summary, location)
	setIfMissing(meta, name, "Dokumento_pavadinimas", "dokumento_pavadinimas")
	setIfMissing(meta, document.DefaultDocumentType, "Dokumento_tipas", "dokumento_tipas")

	if location != "" && !present(meta, "Miestas") {
		parts := strings.Split(location, ",")
		city := strings.TrimSpace(parts[len(parts)-1])
		meta["Miestas"] = city
		meta["miestas"] = city
		meta["Vieta"] = location
		meta["vieta"] = location
		if len(parts) > 1 {
			street := strings.TrimSpace(strings.Join(parts[:len(parts)-1], ","))
			meta["Gatvė"] = street
			meta["gatvė"] = street
		}
	}
	if location != "" {
		setIfMissing(meta, location, "data_objektas")
	}
	if deadline != "" && !present(meta, "Pasiulyma_pateikti_iki") {
		meta["Pasiulyma_pateikti_iki"] = deadline
		meta["pasiulyma_pateikti_iki"] = deadline
		meta["deadline"] = deadline
	}

	return document.SourceDocument{Content: summary, Metadata: meta}
}

func (m *DocumentMapper) ProjectsToDocuments(projects []backend.Project) []document.SourceDocument {
	docs := make([]document.SourceDocument, 0, len(projects))
	for _, p := range projects {
		docs = append(docs, m.ProjectToDocument(p))
	}
	return docs
}

// projectTitle prefers an explicit document name, then a title pulled from
// the summary, then file and project titles, then the address.
func (m *DocumentMapper) projectTitle(p backend.Project, summary, location string) string {
	if v, ok := document.Scalar(p["Dokumento_pavadinimas"]); ok && v != document.UnknownTitle {
		return v
	}
	if t, ok := document.ExtractTitle(summary); ok {
		return t
	}
	for _, key := range []string{"Dokumento_failas", "file_name", "title"} {
		if v, ok := document.Scalar(p[key]); ok {
			return v
		}
	}
	if location != "" {
		return document.LocationTitle(location)
	}
	return defaultProjectTitle
}

func (m *DocumentMapper) ToViews(docs []document.SourceDocument) []document.View {
	views := make([]document.View, 0, len(docs))
	for _, d := range docs {
		views = append(views, document.Normalize(d))
	}
	return views
}

func present(meta map[string]interface{}, key string) bool {
	_, ok := document.Scalar(meta[key])
	return ok
}

func setIfMissing(meta map[string]interface{}, value string, keys ...string) {
	for _, k := range keys {
		if !present(meta, k) {
			meta[k] = value
		}
	}
}
