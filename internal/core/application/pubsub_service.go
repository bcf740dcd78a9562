package application

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

// PubSubService manages webhooks and notifies every listener about the
// events emitted by successful vault operations.
type PubSubService interface {
	AddWebhook(ctx context.Context, topic, endpoint, secret string) (string, error)
	RemoveWebhook(ctx context.Context, id string) error
	ListWebhooks(ctx context.Context, topic string) ([]WebhookInfo, error)
	// PublishEvent notifies listeners about event. Delivery failures are
	// logged and never returned.
	PublishEvent(event domain.Event)
	Close()
}

type pubsubService struct {
	pubsub       ports.PubSub
	broadcasters []ports.Broadcaster
}

// NewPubSubService returns a PubSubService delivering events to the webhooks
// of pubsub, if not nil, and to the given broadcasters.
func NewPubSubService(
	pubsub ports.PubSub, broadcasters ...ports.Broadcaster,
) PubSubService {
	return &pubsubService{pubsub, broadcasters}
}

func (s *pubsubService) AddWebhook(
	_ context.Context, topic, endpoint, secret string,
) (string, error) {
	if s.pubsub == nil {
		return "", ErrWebhookManagerNotInitialized
	}
	if _, ok := domain.TopicFromString(topic); !ok {
		return "", ErrInvalidTopic
	}
	return s.pubsub.Subscribe(topic, endpoint, secret)
}

func (s *pubsubService) RemoveWebhook(_ context.Context, id string) error {
	if s.pubsub == nil {
		return ErrWebhookManagerNotInitialized
	}
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

func (s *pubsubService) ListWebhooks(
	_ context.Context, topic string,
) ([]WebhookInfo, error) {
	if s.pubsub == nil {
		return nil, ErrWebhookManagerNotInitialized
	}
	if topic != ports.UnspecifiedTopic {
		if _, ok := domain.TopicFromString(topic); !ok {
			return nil, ErrInvalidTopic
		}
	}

	subs, err := s.pubsub.ListSubscriptionsForTopic(topic)
	if err != nil {
		return nil, err
	}
	webhooks := make([]WebhookInfo, 0, len(subs))
	for _, sub := range subs {
		webhooks = append(webhooks, webhookInfoFromSubscription(sub))
	}
	return webhooks, nil
}

func (s *pubsubService) PublishEvent(event domain.Event) {
	topic := event.Topic().String()
	payload := map[string]interface{}{
		"event": topic,
		"data":  event,
	}
	message, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Warnf("failed to serialize %s event", topic)
		return
	}

	for _, b := range s.broadcasters {
		if err := b.Publish(topic, string(message)); err != nil {
			log.WithError(err).Warnf("failed to broadcast %s event", topic)
		}
	}

	if s.pubsub == nil {
		return
	}
	go func() {
		if err := s.pubsub.Publish(topic, string(message)); err != nil {
			log.WithError(err).Warnf("failed to notify webhooks about %s event", topic)
		}
	}()
}

func (s *pubsubService) Close() {
	if s.pubsub == nil {
		return
	}
	if err := s.pubsub.Close(); err != nil {
		log.WithError(err).Warn("failed to close pubsub store")
	}
}
