package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Producer wraps a sarama AsyncProducer and drains its error channel into the log.
type Producer struct {
	producer    sarama.AsyncProducer
	topicPrefix string
	logger      *zap.Logger
	done        chan struct{}
}

func NewProducer(brokers []string, topicPrefix string, logger *zap.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Flush.Frequency = 100 * time.Millisecond
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = false
	cfg.Producer.Return.Errors = true
	cfg.Metadata.Retry.Max = 3
	cfg.Metadata.Retry.Backoff = 250 * time.Millisecond

	ap, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	logger.Info("kafka producer initialized",
		zap.Strings("brokers", brokers),
		zap.String("topic_prefix", topicPrefix),
	)
	return newProducer(ap, topicPrefix, logger), nil
}

func newProducer(ap sarama.AsyncProducer, topicPrefix string, logger *zap.Logger) *Producer {
	p := &Producer{producer: ap, topicPrefix: topicPrefix, logger: logger, done: make(chan struct{})}
	go p.handleErrors()
	return p
}

func (p *Producer) handleErrors() {
	for {
		select {
		case perr, ok := <-p.producer.Errors():
			if !ok {
				return
			}
			if perr != nil {
				p.logger.Error("kafka producer error",
					zap.Error(perr.Err),
					zap.String("topic", perr.Msg.Topic),
				)
			}
		case <-p.done:
			return
		}
	}
}

// TopicName prefixes eventType, e.g. "fastloan.payment.recorded".
func (p *Producer) TopicName(eventType string) string {
	if p.topicPrefix == "" || strings.HasPrefix(eventType, p.topicPrefix+".") {
		return eventType
	}
	return p.topicPrefix + "." + eventType
}

func (p *Producer) Close() error {
	close(p.done)
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
