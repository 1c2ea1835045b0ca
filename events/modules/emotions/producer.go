package emotions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/workmood/workmood-backend/model"
)

// EntryProducer handles sending ingestion batch events to Kafka
type EntryProducer struct {
	Writer *kafka.Writer
}

// NewEntryProducer initializes a new Kafka writer for emotion entry events
func NewEntryProducer(brokers []string, topic string) *EntryProducer {
	return &EntryProducer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishEntryBatch sends an ingestion batch to the Kafka topic, keyed by
// the target organization so batches for one org stay ordered
func (p *EntryProducer) PublishEntryBatch(ctx context.Context, orgKey string, entries []model.WorkEmotionEntry) error {
	event := EntryBatchEvent{
		EventType:     "emotions.entries.submitted",
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		OrgKey:        orgKey,
		Entries:       entries,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orgKey),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *EntryProducer) Close() error {
	return p.Writer.Close()
}
