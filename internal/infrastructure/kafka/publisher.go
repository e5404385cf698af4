package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fastloan-backend/internal/domain/event"
)

const schemaVersion = "1.0"

var _ event.Publisher = (*EventPublisher)(nil)

// EventPublisher writes loan domain events to Kafka, keyed by loan id so
// one loan's events stay ordered within a partition.
type EventPublisher struct {
	producer *Producer
	service  string
}

func NewEventPublisher(p *Producer, service string) *EventPublisher {
	return &EventPublisher{producer: p, service: service}
}

type envelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventType, key, userID string, at time.Time, payload any) error {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	b, err := json.Marshal(envelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		UserID:    userID,
		Timestamp: at.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  map[string]string{"service": p.service},
	})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", eventType, err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(b),
	}
	select {
	case p.producer.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *EventPublisher) PublishLoanCreated(ctx context.Context, e event.LoanCreated) error {
	return p.publish(ctx, event.TypeLoanCreated, e.LoanID, e.UserID, e.At, e)
}

func (p *EventPublisher) PublishLoanStatusChanged(ctx context.Context, e event.LoanStatusChanged) error {
	return p.publish(ctx, event.TypeLoanStatusChanged, e.LoanID, e.UserID, e.At, e)
}

func (p *EventPublisher) PublishPaymentRecorded(ctx context.Context, e event.PaymentRecorded) error {
	return p.publish(ctx, event.TypePaymentRecorded, e.LoanID, e.UserID, e.At, e)
}

// StubPublisher logs events instead of sending them; used when no brokers are configured.
type StubPublisher struct{ logger *zap.Logger }

var _ event.Publisher = (*StubPublisher)(nil)

func NewStubPublisher(logger *zap.Logger) *StubPublisher { return &StubPublisher{logger: logger} }

func (s *StubPublisher) log(eventType, loanID string, payload any) {
	s.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("loan_id", loanID),
		zap.Any("payload", payload),
	)
}

func (s *StubPublisher) PublishLoanCreated(_ context.Context, e event.LoanCreated) error {
	s.log(event.TypeLoanCreated, e.LoanID, e)
	return nil
}

func (s *StubPublisher) PublishLoanStatusChanged(_ context.Context, e event.LoanStatusChanged) error {
	s.log(event.TypeLoanStatusChanged, e.LoanID, e)
	return nil
}

func (s *StubPublisher) PublishPaymentRecorded(_ context.Context, e event.PaymentRecorded) error {
	s.log(event.TypePaymentRecorded, e.LoanID, e)
	return nil
}
