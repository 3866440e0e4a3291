// Package producer publishes progression events to Kafka through franz-go.
package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twmb/franz-go/pkg/kgo"

	"impulsa/internal/platform/config"
)

const (
	linger       = 5 * time.Millisecond
	flushTimeout = 30 * time.Second
)

var (
	ErrClosed       = errors.New("kafka producer closed")
	ErrNoBrokers    = errors.New("kafka brokers not configured")
	deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "impulsa_kafka_deliveries_total",
		Help: "Kafka record deliveries by topic and result.",
	}, []string{"topic", "result"})
)

// Message is one record. Key selects the partition; events are keyed by user.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type Producer struct {
	client *kgo.Client
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

func New(cfg config.KafkaConfig, logger *slog.Logger) (*Producer, error) {
	if strings.TrimSpace(cfg.Brokers) == "" {
		return nil, ErrNoBrokers
	}
	client, err := kgo.NewClient(clientOpts(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Producer{client: client, logger: logger}, nil
}

// clientOpts maps KAFKA_ACKS onto franz-go. Idempotent production is only
// valid with acks=all, so weaker acks switch it off.
func clientOpts(cfg config.KafkaConfig) []kgo.Opt {
	opts := []kgo.Opt{
		kgo.SeedBrokers(strings.Split(cfg.Brokers, ",")...),
		kgo.RecordRetries(cfg.Retries),
		kgo.ProducerLinger(linger),
	}
	switch cfg.Acks {
	case "0":
		opts = append(opts, kgo.RequiredAcks(kgo.NoAck()), kgo.DisableIdempotentWrite())
	case "1":
		opts = append(opts, kgo.RequiredAcks(kgo.LeaderAck()), kgo.DisableIdempotentWrite())
	default:
		opts = append(opts, kgo.RequiredAcks(kgo.AllISRAcks()))
	}
	if cfg.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}
	return opts
}

// ProduceAsync queues msg and returns. The delivery outcome is counted and
// failures are logged.
func (p *Producer) ProduceAsync(msg *Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.client.Produce(context.Background(), record(msg), p.delivered)
	return nil
}

func (p *Producer) delivered(r *kgo.Record, err error) {
	if err == nil {
		deliveriesTotal.WithLabelValues(r.Topic, "ok").Inc()
		return
	}
	deliveriesTotal.WithLabelValues(r.Topic, "error").Inc()
	p.logger.Error("kafka delivery failed",
		"topic", r.Topic,
		"key", string(r.Key),
		"error", err,
	)
}

// Check backs readiness: it fails once closed or when no broker answers.
func (p *Producer) Check(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka ping: %w", err)
	}
	return nil
}

// Close flushes buffered records before closing the client. It is safe to
// call more than once.
func (p *Producer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	err := p.client.Flush(ctx)
	p.client.Close()
	if err != nil {
		return fmt.Errorf("flush on close: %w", err)
	}
	return nil
}

func record(msg *Message) *kgo.Record {
	r := &kgo.Record{Topic: msg.Topic, Key: msg.Key, Value: msg.Value}
	for k, v := range msg.Headers {
		r.Headers = append(r.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return r
}
