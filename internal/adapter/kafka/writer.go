package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-client/internal/config"
	"github.com/couchcryptid/weather-client/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes weather views to a Kafka topic.
// It implements pipeline.Renderer.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured view topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Render publishes v keyed by its chain id so views from one chain share a
// partition.
func (w *Writer) Render(ctx context.Context, v domain.View) error {
	msg, err := serializeToMessage(v)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish view: %w", err)
	}
	w.logger.Debug("view published", "chain_id", v.ChainID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a View into a Kafka message. Icon bytes are not
// part of the payload; consumers fetch them by icon id.
func serializeToMessage(v domain.View) (kafkago.Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize view: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(v.ChainID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "trigger", Value: []byte(v.Trigger)},
			{Key: "updated_at", Value: []byte(v.UpdatedAt.Format(time.RFC3339))},
		},
	}, nil
}
