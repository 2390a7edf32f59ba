package service

import (
	"context"
	"time"

	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/pkg/events"
	pktNats "asistentas-gateway/pkg/nats"
)

// EventDelivery pushes an event to the sockets of its session. Implemented
// by the websocket hub.
type EventDelivery interface {
	Deliver(event events.Event)
	CloseSession(sessionID string)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ISessionNotifier interface {
	Notify(ctx context.Context, event events.Event)
	SessionClosed(ctx context.Context, sessionID string)
}

// sessionNotifier routes events through NATS when it is configured, so any
// instance can pick them up, and straight to the hub otherwise.
type sessionNotifier struct {
	publisher EventPublisher
	delivery  EventDelivery
	logger    logger.ILogger
}

func NewSessionNotifier(publisher EventPublisher, delivery EventDelivery, log logger.ILogger) ISessionNotifier {
	return &sessionNotifier{publisher: publisher, delivery: delivery, logger: log}
}

func (n *sessionNotifier) Notify(ctx context.Context, event events.Event) {
	if n.publisher != nil {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		err := n.publisher.Publish(pubCtx, event)
		if err == nil {
			return
		}
		n.logger.Warn("NOTIFIER", "Publish failed, delivering locally", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
	if n.delivery != nil {
		n.delivery.Deliver(event)
	}
}

// SessionClosed skips the bus: the sockets must hear about it before they
// are dropped.
func (n *sessionNotifier) SessionClosed(_ context.Context, sessionID string) {
	if n.delivery == nil {
		return
	}
	n.delivery.Deliver(events.NewSessionEvent(events.SessionClosed, sessionID, nil))
	n.delivery.CloseSession(sessionID)
}

// SessionEventService drains session events from NATS into the hub.
type SessionEventService struct {
	subscriber *pktNats.Subscriber
	delivery   EventDelivery
	logger     logger.ILogger
}

func NewSessionEventService(sub *pktNats.Subscriber, delivery EventDelivery, log logger.ILogger) *SessionEventService {
	return &SessionEventService{subscriber: sub, delivery: delivery, logger: log}
}

func (s *SessionEventService) Start() {
	err := s.subscriber.Subscribe(pktNats.Subject("session.>"), "gateway-session-events", s.handleEvent)
	if err != nil {
		s.logger.Error("SessionEventService", "Failed to start session event subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("SessionEventService", "Listening to session events", nil)
}

func (s *SessionEventService) handleEvent(_ context.Context, event events.Event) error {
	if _, ok := events.SessionID(event); !ok {
		s.logger.Warn("SessionEventService", "Event without session id", map[string]interface{}{"type": event.EventType()})
		return nil
	}
	s.delivery.Deliver(event)
	return nil
}
