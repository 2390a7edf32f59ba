package service

import (
	"context"
	"encoding/json"

	"asistentas-gateway/internal/dto"
	"asistentas-gateway/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// DocumentRefresher reloads the background documents of one session.
type DocumentRefresher interface {
	RefreshBackground(ctx context.Context, sessionID, city string) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	refresher  DocumentRefresher
	logger     logger.ILogger

	// bounds concurrent refreshes
	slots chan struct{}
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	refresher DocumentRefresher,
	log logger.ILogger,
	concurrency int,
) IConsumerService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		refresher:  refresher,
		logger:     log,
		slots:      make(chan struct{}, concurrency),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()
	return nil
}

// processMessage acks on receipt. A refresh that fails leaves the previous
// documents in place, so there is nothing to redeliver.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RefreshDocumentsMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.SessionId == "" {
		cs.logger.Error("CONSUMER", "Invalid refresh message", map[string]interface{}{"uuid": msg.UUID})
		msg.Ack()
		return
	}
	msg.Ack()

	select {
	case cs.slots <- struct{}{}:
	case <-ctx.Done():
		return
	}
	go func() {
		defer func() { <-cs.slots }()
		if err := cs.refresher.RefreshBackground(ctx, payload.SessionId, payload.City); err != nil {
			cs.logger.Warn("CONSUMER", "Background refresh failed", map[string]interface{}{
				"session_id": payload.SessionId,
				"error":      err.Error(),
			})
		}
	}()
}
