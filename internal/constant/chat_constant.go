package constant

const (
	DefaultModelName = "meta-llama/llama-4-scout-17b-16e-instruct"

	// System messages appended on focus transitions
	FocusActivatedMessageFormat = "Aktyvuotas dokumentas: \"%s\"\n\nAtsakymai bus teikiami remiantis tik šiuo dokumentu. Klauskite apie šį projektą."
	FocusFailedMessage          = "⚠️ Nepavyko aktyvuoti dokumento. Bandykite dar kartą vėliau."
	FocusClearedMessage         = "Dokumentų fokusavimas išjungtas. Atsakymai dabar bus teikiami iš visos duomenų bazės."
	FocusMissingIDMessage       = "⚠️ Nepavyko aktyvuoti dokumento: trūksta dokumento identifikatoriaus."

	SubmissionErrorMessageFormat = "⚠️ Error: %s"

	PlaceholderFocused   = "Klauskite apie šį specifinį dokumentą..."
	PlaceholderUnfocused = "Klauskite apie projektus, kvietimus, skelbinius ir kitus duomenis..."

	ProbeMessage = "Test message"
)
