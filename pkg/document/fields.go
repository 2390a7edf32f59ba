package document

// FieldChain is a priority-ordered list of metadata keys that all carry the
// same logical attribute. Producers disagree on casing and language, so every
// canonical attribute is resolved through one of these tables.
type FieldChain []string

// UnknownTitle is the placeholder title. Upstream producers also write it
// into metadata, where it counts as absent.
const UnknownTitle = "Nežinomas dokumentas"

// DefaultDocumentType is used when no type field is present.
const DefaultDocumentType = "Kvietimas"

var (
	IDFields = FieldChain{"uuid", "id"}

	TitleFields = FieldChain{
		"Dokumento_pavadinimas",
		"dokumento_pavadinimas",
		"Dokumento_failas",
		"file_name",
		"Projekto_pavadinimas",
		"projekto_pavadinimas",
		"pavadinimas",
		"Pavadinimas",
		"title",
		"Title",
		"name",
		"document_name",
		"project_name",
	}

	StreetFields = FieldChain{"Gatvė", "gatvė", "Gatve", "gatve", "street"}

	CityFields = FieldChain{"Miestas", "miestas", "city"}

	LocationFields = FieldChain{"Vieta", "vieta", "location", "data_objektas", "Objekto_vieta"}

	DeadlineFields = FieldChain{
		"Pasiulyma_pateikti_iki",
		"pasiulyma_pateikti_iki",
		"Pateikti_projekta_iki",
		"pateikti_projekta_iki",
		"pateikti_iki",
		"deadline",
		"Terminas",
		"terminas",
	}

	TypeFields = FieldChain{"Dokumento_tipas", "dokumento_tipas", "document_type", "type"}
)

// First returns the first present value in the chain. Values listed in
// ignore are treated as absent.
func (c FieldChain) First(meta map[string]interface{}, ignore ...string) (string, bool) {
	for _, key := range c {
		v, ok := Scalar(meta[key])
		if !ok || contains(ignore, v) {
			continue
		}
		return v, true
	}
	return "", false
}

// Objects returns the map-valued entries of the chain in priority order.
func (c FieldChain) Objects(meta map[string]interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	for _, key := range c {
		if obj, ok := meta[key].(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
