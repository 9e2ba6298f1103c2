package contracts

import "context"

// EventQueue is the durable stream behind the audit trail.
type EventQueue interface {
	// PublishToStream appends a payload to the topic's stream.
	PublishToStream(ctx context.Context, topic string, payload []byte) error
	// SubscribeToStream reads the stream through a consumer group and hands
	// each entry to the handler. Runs until ctx is cancelled.
	SubscribeToStream(ctx context.Context, topic string, group string, handler func(ctx context.Context, messageID string, data []byte) error) error
	// AcknowledgeMessage marks an entry as processed for the group.
	AcknowledgeMessage(ctx context.Context, topic, group, msgID string) error
	// DeleteMessage removes a processed entry from the stream.
	DeleteMessage(ctx context.Context, topic, msgID string) error
}
