package pubsub

import "errors"

var (
	// ErrMissingTopic is returned when subscribing without a topic.
	ErrMissingTopic = errors.New("missing topic")
	// ErrInvalidEndpoint is returned when the webhook endpoint is not a valid
	// URI.
	ErrInvalidEndpoint = errors.New("invalid webhook endpoint, must be a valid URI")
	// ErrSubscriptionNotFound is returned when unsubscribing an unknown id.
	ErrSubscriptionNotFound = errors.New("webhook not found")
)
