package document

import (
	"strings"

	"github.com/google/uuid"
)

// namespace for ids derived from content when upstream sends none
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("asistentas-gateway/source-document"))

// ResolveID returns metadata.uuid or metadata.id. Documents without either get
// a name-based UUID over their normalized content and title, so the same
// record resolves to the same id on every call.
func ResolveID(doc SourceDocument) string {
	if id, ok := IDFields.First(doc.Metadata); ok {
		return id
	}
	key := strings.Join(strings.Fields(doc.Content), " ") + "\x00" + ResolveTitle(doc)
	return "doc-" + uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// MatchesID reports whether the document answers to id, either through its
// resolved id or one of the raw id fields.
func MatchesID(doc SourceDocument, id string) bool {
	if id == "" {
		return false
	}
	if ResolveID(doc) == id {
		return true
	}
	for _, key := range IDFields {
		if v, ok := Scalar(doc.Metadata[key]); ok && v == id {
			return true
		}
	}
	return false
}

// ResolveTitle walks title fields, then content extraction, then a phrase
// built from the location, then the placeholder.
func ResolveTitle(doc SourceDocument) string {
	if t, ok := TitleFields.First(doc.Metadata, UnknownTitle); ok {
		return t
	}
	if t, ok := ExtractTitle(doc.Content); ok {
		return t
	}
	if loc := ResolveLocation(doc); loc != "" {
		return LocationTitle(loc)
	}
	return UnknownTitle
}

// LocationTitle is the synthesized title for documents known only by address.
func LocationTitle(location string) string {
	return "Kvietimas pateikti pasiūlymą adresu " + location
}

func ResolveLocation(doc SourceDocument) string {
	street, _ := StreetFields.First(doc.Metadata)
	city, _ := CityFields.First(doc.Metadata)
	if loc := joinNonEmpty(street, city); loc != "" {
		return loc
	}
	if loc, ok := LocationFields.First(doc.Metadata); ok {
		return loc
	}
	for _, obj := range LocationFields.Objects(doc.Metadata) {
		street, _ := StreetFields.First(obj)
		city, _ := CityFields.First(obj)
		if loc := joinNonEmpty(street, city); loc != "" {
			return loc
		}
	}
	return ""
}

func ResolveDeadline(doc SourceDocument) string {
	raw, ok := DeadlineFields.First(doc.Metadata)
	if !ok {
		return ""
	}
	return FormatDate(raw)
}

func ResolveDocumentType(doc SourceDocument) string {
	if t, ok := TypeFields.First(doc.Metadata); ok {
		return t
	}
	return DefaultDocumentType
}

// EnsureTitle writes an extracted title into both title casings when the
// document has none, the way the backend expects to read it back.
func EnsureTitle(doc *SourceDocument) {
	if _, ok := TitleFields.First(doc.Metadata, UnknownTitle); ok {
		return
	}
	if t, ok := ExtractTitle(doc.Content); ok {
		doc.Set("Dokumento_pavadinimas", t)
		doc.Set("dokumento_pavadinimas", t)
	}
}

// View is the canonical, display-ready projection of a SourceDocument.
type View struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Location           string `json:"location,omitempty"`
	SubmissionDeadline string `json:"submission_deadline,omitempty"`
	DocumentType       string `json:"document_type"`
	Summary            string `json:"summary,omitempty"`
	Source             string `json:"source,omitempty"`
	AskPrompt          string `json:"ask_prompt"`
}

func Normalize(doc SourceDocument) View {
	title := ResolveTitle(doc)
	return View{
		ID:                 ResolveID(doc),
		Title:              title,
		Location:           ResolveLocation(doc),
		SubmissionDeadline: ResolveDeadline(doc),
		DocumentType:       ResolveDocumentType(doc),
		Summary:            doc.Content,
		Source:             doc.Source(),
		AskPrompt:          AskPrompt(title),
	}
}

// AskPrompt pre-fills the chat input when a document is clicked.
func AskPrompt(title string) string {
	return "Papasakok apie: " + title
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
