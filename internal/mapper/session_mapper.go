package mapper

import (
	"asistentas-gateway/internal/constant"
	"asistentas-gateway/internal/dto"
	"asistentas-gateway/pkg/focus"
	"asistentas-gateway/pkg/store"
)

type SessionMapper struct {
	documents *DocumentMapper
}

func NewSessionMapper(documents *DocumentMapper) *SessionMapper {
	return &SessionMapper{documents: documents}
}

func (m *SessionMapper) SnapshotToResponse(s store.Snapshot) *dto.SessionResponse {
	brand := constant.LookupBrand(s.Brand)
	messages := make([]dto.MessageDTO, 0, len(s.Messages))
	for _, msg := range s.Messages {
		messages = append(messages, m.MessageToDTO(msg))
	}

	placeholder := constant.PlaceholderUnfocused
	if s.Focus.IsFocused() {
		placeholder = constant.PlaceholderFocused
	}

	return &dto.SessionResponse{
		Id:             s.ID,
		Brand:          dto.BrandDTO{Key: brand.Key, Name: brand.Name},
		ModelName:      s.ModelName,
		ConversationId: s.ConversationID,
		Focus:          m.FocusToDTO(s.Focus),
		Messages:       messages,
		Documents:      m.documents.ToViews(s.DisplayedDocuments),
		City:           s.City,
		Loading:        s.Loading,
		Placeholder:    placeholder,
		CreatedAt:      s.CreatedAt,
	}
}

func (m *SessionMapper) MessageToDTO(msg store.Message) dto.MessageDTO {
	out := dto.MessageDTO{
		Role:      msg.Role,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
	if len(msg.Sources) > 0 {
		out.Sources = m.documents.ToViews(msg.Sources)
	}
	return out
}

func (m *SessionMapper) FocusToDTO(s focus.State) dto.FocusDTO {
	route := s.Route()
	out := dto.FocusDTO{
		State:    s.Kind().String(),
		Endpoint: string(route.Endpoint),
	}
	if id, ok := s.DocumentID(); ok {
		out.DocumentID = id
		out.Title = s.Title()
	}
	return out
}
