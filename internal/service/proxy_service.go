package service

import (
	"context"

	"asistentas-gateway/internal/dto"
	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/pkg/backend"
)

// IProxyService forwards stateless chat and workflow calls to the backend.
type IProxyService interface {
	Chat(ctx context.Context, req *dto.ChatProxyRequest) (*backend.ChatResponse, error)
	DocumentChat(ctx context.Context, req *dto.DocumentChatRequest) (*backend.ChatResponse, error)
	DocumentWorkflow(ctx context.Context, req *dto.DocumentWorkflowRequest) (*backend.WorkflowResponse, error)
}

type proxyService struct {
	client       backend.Client
	defaultModel string
	logger       logger.ILogger
}

func NewProxyService(client backend.Client, defaultModel string, log logger.ILogger) IProxyService {
	return &proxyService{client: client, defaultModel: defaultModel, logger: log}
}

func (s *proxyService) Chat(ctx context.Context, req *dto.ChatProxyRequest) (*backend.ChatResponse, error) {
	resp, err := s.client.Chat(ctx, backend.ChatRequest{
		Message:        req.Message,
		ModelName:      s.model(req.ModelName),
		ConversationID: req.ConversationID,
	})
	if err != nil {
		s.logger.Error("PROXY", "Chat request failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return resp, nil
}

func (s *proxyService) DocumentChat(ctx context.Context, req *dto.DocumentChatRequest) (*backend.ChatResponse, error) {
	resp, err := s.client.DocumentQuery(ctx, backend.DocumentQueryRequest{
		Message:        req.Message,
		DocumentID:     req.DocumentID,
		ModelName:      s.model(req.ModelName),
		ConversationID: req.ConversationID,
	})
	if err != nil {
		s.logger.Error("PROXY", "Document query failed", map[string]interface{}{
			"document_id": req.DocumentID,
			"error":       err.Error(),
		})
		return nil, err
	}
	return resp, nil
}

func (s *proxyService) DocumentWorkflow(ctx context.Context, req *dto.DocumentWorkflowRequest) (*backend.WorkflowResponse, error) {
	resp, err := s.client.CreateDirectDocumentWorkflow(ctx, req.DocumentID)
	if err != nil {
		s.logger.Error("PROXY", "Document workflow failed", map[string]interface{}{
			"document_id": req.DocumentID,
			"error":       err.Error(),
		})
		return nil, err
	}
	return resp, nil
}

func (s *proxyService) model(requested string) string {
	if requested != "" {
		return requested
	}
	return s.defaultModel
}
