package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/PatentLens/internal/application/export"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// ProducerConfig holds configuration for the job producer.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	MaxRetries   int
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes export jobs onto the queue topic. It implements
// export.Queue.
type Producer struct {
	writer WriterInterface
	topic  string
	logger logging.Logger
	closed atomic.Bool
	sent   atomic.Int64
}

// NewProducer creates a Producer writing to cfg.Topic.
func NewProducer(cfg ProducerConfig, logger logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.Topic == "" {
		cfg.Topic = TopicExportRequested
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 100 * time.Millisecond
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxRetries + 1,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireAll,
	}

	return &Producer{writer: writer, topic: cfg.Topic, logger: logger}, nil
}

// NewProducerWithWriter wires a custom writer, used by tests.
func NewProducerWithWriter(w WriterInterface, topic string, logger logging.Logger) *Producer {
	return &Producer{writer: w, topic: topic, logger: logger}
}

// Enqueue serializes the job and publishes it keyed by job ID, so retries
// of the same job land on the same partition.
func (p *Producer) Enqueue(ctx context.Context, job *export.Job) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if job == nil || job.ID == "" {
		return errors.New(errors.ErrCodeValidation, "job id required")
	}

	value, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal export job")
	}

	msg := kafka.Message{
		Key:   []byte(job.ID),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportEnqueueFail, "publish export job")
	}

	p.sent.Add(1)
	p.logger.Debug("export job published",
		logging.String("job_id", job.ID),
		logging.String("topic", p.topic))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed", logging.Int64("sent", p.sent.Load()))
	return err
}
