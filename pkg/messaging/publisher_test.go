package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"go.uber.org/zap"
)

func TestKafkaPublisherPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event Event
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.Type != EventTicketPurchased {
			return errors.New("unexpected event type " + event.Type)
		}
		if event.Key != "ticket-1" {
			return errors.New("unexpected key " + event.Key)
		}
		var payload map[string]string
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		if payload["code"] != "TKT-1" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	publisher := newKafkaPublisher(producer, "theater-events", zap.NewNop())
	err := publisher.Publish(context.Background(), EventTicketPurchased, "ticket-1", map[string]string{"code": "TKT-1"})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := publisher.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestKafkaPublisherPublishError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := newKafkaPublisher(producer, "theater-events", zap.NewNop())
	err := publisher.Publish(context.Background(), EventOrderPlaced, "order-1", map[string]int{"items": 2})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("Publish() error = %v, want %v", err, sarama.ErrOutOfBrokers)
	}
	producer.Close()
}

func TestLogPublisher(t *testing.T) {
	publisher := NewLogPublisher(zap.NewNop())
	if err := publisher.Publish(context.Background(), EventOTPRequested, "user-1", map[string]string{"email": "a@b.c"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if err := publisher.Publish(context.Background(), EventOTPRequested, "user-1", make(chan int)); err == nil {
		t.Fatal("Publish() with unmarshalable payload should fail")
	}
}
