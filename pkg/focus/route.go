package focus

type Endpoint string

const (
	EndpointChat         Endpoint = "chat"
	EndpointDocumentChat Endpoint = "document_chat"
)

// Route is where the next chat submission goes.
type Route struct {
	Endpoint   Endpoint
	DocumentID string
}

// Route must be read at submission time, not cached from the last transition.
func (s State) Route() Route {
	if id, ok := s.DocumentID(); ok {
		return Route{Endpoint: EndpointDocumentChat, DocumentID: id}
	}
	return Route{Endpoint: EndpointChat}
}
