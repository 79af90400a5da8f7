package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aparnaappu2002/planzo-backend/pkg/retry"
)

type mockProducer struct {
	calls    int
	failNext int
	topic    string
	key      string
	value    []byte
}

func (p *mockProducer) Publish(ctx context.Context, topic, key string, value []byte) error {
	p.calls++
	if p.failNext > 0 {
		p.failNext--
		return errors.New("broker unavailable")
	}
	p.topic = topic
	p.key = key
	p.value = value
	return nil
}

func fastRetry() *retry.Config {
	return &retry.Config{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Multiplier:      1,
	}
}

func TestKafkaNotifier_SendOtp(t *testing.T) {
	producer := &mockProducer{}
	n := NewKafkaNotifier(producer, "notification.email", fastRetry())

	if err := n.SendOtp(context.Background(), "asha@example.com", "123456"); err != nil {
		t.Fatalf("SendOtp: %v", err)
	}

	if producer.topic != "notification.email" {
		t.Errorf("topic = %q", producer.topic)
	}
	// Recipient keys the record so mails for one address stay ordered
	if producer.key != "asha@example.com" {
		t.Errorf("key = %q, want recipient address", producer.key)
	}

	var event EmailEvent
	if err := json.Unmarshal(producer.value, &event); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if event.Type != TypeOtp {
		t.Errorf("type = %q, want %q", event.Type, TypeOtp)
	}
	if event.Data["code"] != "123456" {
		t.Errorf("code = %q", event.Data["code"])
	}
}

func TestKafkaNotifier_RetriesTransientFailure(t *testing.T) {
	producer := &mockProducer{failNext: 2}
	n := NewKafkaNotifier(producer, "notification.email", fastRetry())

	if err := n.SendResetLink(context.Background(), "asha@example.com", "https://example.com/reset"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if producer.calls != 3 {
		t.Errorf("publish attempts = %d, want 3", producer.calls)
	}
}

func TestKafkaNotifier_GivesUpAfterMaxRetries(t *testing.T) {
	producer := &mockProducer{failNext: 10}
	n := NewKafkaNotifier(producer, "notification.email", fastRetry())

	err := n.SendAccountStatus(context.Background(), "asha@example.com", "block")
	if !errors.Is(err, retry.ErrMaxRetriesExceeded) {
		t.Fatalf("err = %v, want max retries exceeded", err)
	}
	if producer.calls != 3 {
		t.Errorf("publish attempts = %d, want 3", producer.calls)
	}
}
