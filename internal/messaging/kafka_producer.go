package messaging

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/service-bay/ticket-service/internal/config"
)

// ErrProducerClosed is returned by Produce after Close.
var ErrProducerClosed = errors.New("kafka producer closed")

const (
	defaultPublishTimeout = 2 * time.Second
	minWriterRebuildGap   = 2 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer writes ticket events to one topic. Each Produce call makes
// a single bounded attempt; callers sit on the request path.
type KafkaProducer struct {
	mu          sync.Mutex
	writer      messageWriter
	build       func() messageWriter
	timeout     time.Duration
	lastRebuild time.Time
	now         func() time.Time
}

// NewKafkaProducer builds a producer for cfg.Topic.
func NewKafkaProducer(cfg config.KafkaConfig) *KafkaProducer {
	return newKafkaProducer(func() messageWriter { return newTopicWriter(cfg) }, cfg.WriteTimeout())
}

func newKafkaProducer(build func() messageWriter, timeout time.Duration) *KafkaProducer {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &KafkaProducer{writer: build(), build: build, timeout: timeout, now: time.Now}
}

func newTopicWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},
		// One ack keeps request latency low; ticket events are advisory.
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Transport: &kafka.Transport{
			ClientID:    cfg.ClientID,
			MetadataTTL: 10 * time.Second,
		},
	}
}

// Produce writes one message. A connection-level failure is returned to the
// caller as is and the writer is rebuilt for the next call.
func (p *KafkaProducer) Produce(ctx context.Context, key, value []byte) error {
	p.mu.Lock()
	w := p.writer
	p.mu.Unlock()
	if w == nil {
		return ErrProducerClosed
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err := w.WriteMessages(writeCtx, kafka.Message{Key: key, Value: value})
	if brokenConnection(err) {
		p.rebuild(w)
	}
	return err
}

// Close flushes and closes the writer.
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}

func (p *KafkaProducer) rebuild(failed messageWriter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Skip when closed, already replaced, or rebuilt moments ago.
	if p.writer == nil || p.writer != failed || p.now().Sub(p.lastRebuild) < minWriterRebuildGap {
		return
	}
	_ = failed.Close()
	p.writer = p.build()
	p.lastRebuild = p.now()
}

var connectionErrorHints = []string{
	"dial tcp",
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"eof",
	"not leader",
	"unknown broker",
}

func brokenConnection(err error) bool {
	if err == nil || errors.Is(err, ErrProducerClosed) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range connectionErrorHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
