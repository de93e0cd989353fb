package kafka

import (
	"context"
	"sync/atomic"
	"time"

	segkafka "github.com/segmentio/kafka-go"

	"github.com/helix-insights/madison/internal/config"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/pkg/errors"
)

var (
	ErrProducerClosed = errors.New(errors.ErrCodeProducerClosed, "producer closed")
	ErrPublishFailed  = errors.New(errors.ErrCodeAlertPublishFailed, "publish failed")
)

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...segkafka.Message) error
	Close() error
}

// ProducerMetrics holds producer counters.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
	BytesSent      atomic.Int64
}

// Producer publishes intelligence events.  Publishing is advisory: callers
// treat failures as degraded delivery, never as a failed analysis run.
type Producer struct {
	writer     WriterInterface
	alertTopic string
	logger     logging.Logger
	closed     atomic.Bool
	metrics    *ProducerMetrics
}

// NewProducer builds a producer from cfg.  It does not dial the brokers;
// kafka-go connects lazily on first write.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	writer := &segkafka.Writer{
		Addr:                   segkafka.TCP(cfg.Brokers...),
		Balancer:               &segkafka.Hash{},
		MaxAttempts:            cfg.MaxRetries + 1,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           segkafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer:     writer,
		alertTopic: cfg.Topic,
		logger:     log,
		metrics:    &ProducerMetrics{},
	}, nil
}

// PublishThreatAlert publishes one critical-threat event, keyed by company so
// alerts about the same competitor land on one partition.
func (p *Producer) PublishThreatAlert(ctx context.Context, payload ThreatAlertPayload) error {
	return p.publish(ctx, EventTypeThreatAlert, p.alertTopic, payload.Company, payload)
}

// PublishAnalysisCompleted publishes the run-completed event.
func (p *Producer) PublishAnalysisCompleted(ctx context.Context, payload AnalysisCompletedPayload) error {
	return p.publish(ctx, EventTypeAnalysisCompleted, TopicCompetitiveIntelUpdate, payload.ReportID, payload)
}

func (p *Producer) publish(ctx context.Context, eventType, topic, key string, payload interface{}) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	env, err := NewEventEnvelope(eventType, payload)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(topic, key)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.MessagesFailed.Add(1)
		return ErrPublishFailed.WithCause(err).WithDetail("topic=" + topic)
	}

	p.metrics.MessagesSent.Add(1)
	p.metrics.BytesSent.Add(int64(len(msg.Value)))
	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_type", eventType))
	return nil
}

// Metrics returns a snapshot of the producer counters.
func (p *Producer) Metrics() (sent, failed, bytes int64) {
	return p.metrics.MessagesSent.Load(), p.metrics.MessagesFailed.Load(), p.metrics.BytesSent.Load()
}

// Close flushes and closes the writer.  Close is idempotent.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed",
		logging.Int64("sent", p.metrics.MessagesSent.Load()),
		logging.Int64("failed", p.metrics.MessagesFailed.Load()))
	return err
}
