package ports

const AnyTopic = "*"
const UnspecifiedTopic = ""

type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// Broadcaster delivers messages published for a topic to whoever is
// listening for it.
type Broadcaster interface {
	// Publish publishes a message for a certain topic.
	Publish(topic string, message string) error
}

// PubSub defines the methods of a webhook pubsub service backed by a
// persistent store of subscriptions.
type PubSub interface {
	Broadcaster
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed for
	// a certain topic.
	ListSubscriptionsForTopic(topic string) ([]Subscription, error)
	// Close should be used to gracefully close the connection with the store.
	Close() error
}

// Message is a published message as delivered to stream listeners.
type Message struct {
	Topic   string
	Payload string
}

// EventStream is an in-process broadcaster whose listeners receive the
// published messages over a channel.
type EventStream interface {
	Broadcaster
	// Listen registers a listener for the given topics, or for any if none is
	// given. The returned channel is closed once stop is called.
	Listen(topics ...string) (messages <-chan Message, stop func())
}
