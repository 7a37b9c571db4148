package service

import (
	"context"
	"log"

	"github.com/bytedance/sonic"
	kafkago "github.com/segmentio/kafka-go"

	"ilmhub_backend/internals/messaging/kafka"
)

// Dispatcher hands order events to whoever sends the emails.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

// InlineDispatcher runs the notifier in the request; used when kafka is not configured.
type InlineDispatcher struct {
	Notifier *Notifier
}

func (d InlineDispatcher) Dispatch(ctx context.Context, ev Event) {
	if d.Notifier == nil {
		return
	}
	if err := d.Notifier.Handle(ctx, ev); err != nil {
		log.Printf("[ERROR] notify %s %s: %v", ev.EventType, ev.TranID, err)
	}
}

// KafkaDispatcher publishes the event keyed by tran_id; a consumer runs the notifier.
type KafkaDispatcher struct {
	Producer *kafka.Producer
}

func (d KafkaDispatcher) Dispatch(_ context.Context, ev Event) {
	raw, err := sonic.Marshal(ev)
	if err != nil {
		log.Printf("[ERROR] encode order event %s: %v", ev.TranID, err)
		return
	}
	if !d.Producer.Publish([]byte(ev.TranID), raw,
		kafkago.Header{Key: "event_type", Value: []byte(ev.EventType)}) {
		log.Printf("[WARN] order event %s %s not published", ev.EventType, ev.TranID)
	}
}

// KafkaHandler decodes events from the order topic. Undecodable messages are
// skipped (nil) so they do not block the partition.
func KafkaHandler(n *Notifier) kafka.Handler {
	return func(ctx context.Context, m kafkago.Message) error {
		var ev Event
		if err := sonic.Unmarshal(m.Value, &ev); err != nil {
			log.Printf("[WARN] skip bad order event offset=%d: %v", m.Offset, err)
			return nil
		}
		return n.Handle(ctx, ev)
	}
}
