package service

import (
	"context"
	"testing"

	"asistentas-gateway/internal/dto"
	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/pkg/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyChatDefaultsModel(t *testing.T) {
	fb := &fakeBackend{chatResp: &backend.ChatResponse{Message: "ok"}}
	svc := NewProxyService(fb, "m-default", logger.NewNopLogger())

	resp, err := svc.Chat(context.Background(), &dto.ChatProxyRequest{Message: "Labas"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, "m-default", fb.chatRequests[0].ModelName)

	_, err = svc.Chat(context.Background(), &dto.ChatProxyRequest{Message: "Labas", ModelName: "custom", ConversationID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, "custom", fb.chatRequests[1].ModelName)
	assert.Equal(t, "c-1", fb.chatRequests[1].ConversationID)
}

func TestProxyDocumentChatForwardsErrors(t *testing.T) {
	fb := &fakeBackend{queryErr: &backend.APIError{StatusCode: 404, Detail: "Document not found"}}
	svc := NewProxyService(fb, "m-default", logger.NewNopLogger())

	_, err := svc.DocumentChat(context.Background(), &dto.DocumentChatRequest{Message: "q", DocumentID: "d-1"})
	apiErr, ok := backend.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, "d-1", fb.queryRequests[0].DocumentID)
}

func TestProxyWorkflowPassesResponseThrough(t *testing.T) {
	fb := &fakeBackend{workflowResp: &backend.WorkflowResponse{WorkflowID: "w-1"}}
	svc := NewProxyService(fb, "m-default", logger.NewNopLogger())

	resp, err := svc.DocumentWorkflow(context.Background(), &dto.DocumentWorkflowRequest{DocumentID: "d-1"})
	require.NoError(t, err)
	assert.Equal(t, "w-1", resp.WorkflowID)
	assert.Nil(t, resp.Document)
}
