package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/PatentLens/internal/application/export"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// JobHandler processes one export job. export.Processor satisfies it.
type JobHandler interface {
	Process(ctx context.Context, job *export.Job) error
}

// ConsumerConfig holds configuration for the job consumer.
type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topic          string
	MinBytes       int
	MaxBytes       int
	CommitInterval time.Duration
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer pulls export jobs off the queue and hands them to the handler.
// Messages are committed after handling either way: a job that fails is
// recorded as failed in its status, not redelivered forever.
type Consumer struct {
	reader  ReaderInterface
	handler JobHandler
	logger  logging.Logger

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	consumed atomic.Int64
	failed   atomic.Int64
}

// NewConsumer creates a Consumer in the given consumer group.
func NewConsumer(cfg ConsumerConfig, handler JobHandler, logger logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "group id required")
	}
	if cfg.Topic == "" {
		cfg.Topic = TopicExportRequested
	}
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10 * 1024 * 1024
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		CommitInterval: cfg.CommitInterval,
		StartOffset:    kafka.FirstOffset,
	})

	return &Consumer{reader: reader, handler: handler, logger: logger}, nil
}

// NewConsumerWithReader wires a custom reader, used by tests.
func NewConsumerWithReader(r ReaderInterface, handler JobHandler, logger logging.Logger) *Consumer {
	return &Consumer{reader: r, handler: handler, logger: logger}
}

// Start begins the fetch loop. It returns immediately; the loop runs until
// Close is called or the parent context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.loop(loopCtx)
	}()

	c.logger.Info("export consumer started")
	return nil
}

func (c *Consumer) loop(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("fetch message failed", logging.Err(err))
			continue
		}

		c.consumed.Add(1)
		c.handleMessage(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Error("commit failed",
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) {
	var job export.Job
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		c.failed.Add(1)
		c.logger.Error("malformed export job dropped",
			logging.Int64("offset", msg.Offset),
			logging.Err(err))
		return
	}

	if err := c.handler.Process(ctx, &job); err != nil {
		c.failed.Add(1)
		c.logger.Error("export job failed",
			logging.String("job_id", job.ID),
			logging.Err(err))
	}
}

// Close stops the fetch loop and releases the reader.
func (c *Consumer) Close() error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	err := c.reader.Close()
	c.logger.Info("export consumer closed",
		logging.Int64("consumed", c.consumed.Load()),
		logging.Int64("failed", c.failed.Load()))
	return err
}
