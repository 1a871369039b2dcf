package indexer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
)

// Topics of the published messages.
const (
	TopicScorerCreated  = "scorer.created"
	TopicScorerRemoved  = "scorer.removed"
	TopicManagerChanged = "scorer.manager.changed"
)

// Message is a JSON payload of the published messages. Addresses are
// little-endian hex strings.
type Message struct {
	Factory     string `json:"factory"`
	Block       uint32 `json:"block"`
	Tx          string `json:"tx"`
	Caller      string `json:"caller"`
	Scorer      string `json:"scorer,omitempty"`
	Manager     string `json:"manager,omitempty"`
	Action      string `json:"action,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// NewPublisher returns message.Publisher sending messages to NATS server at
// natsURL. If natsURL is empty, in-process gochannel.GoChannel is returned.
func NewPublisher(natsURL string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	if natsURL == "" {
		return gochannel.NewGoChannel(gochannel.Config{}, logger), nil
	}

	pub, err := nats.NewPublisher(nats.PublisherConfig{
		URL: natsURL,
		NatsOptions: []nc.Option{
			nc.RetryOnFailedConnect(true),
			nc.Timeout(30 * time.Second),
			nc.ReconnectWait(time.Second),
		},
		Marshaler:         &nats.NATSMarshaler{},
		JetStream:         nats.JetStreamConfig{Disabled: true},
		SubjectCalculator: nats.DefaultSubjectCalculator,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	return pub, nil
}

func publish(pub message.Publisher, topic string, m Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", topic, err)
	}

	return nil
}
