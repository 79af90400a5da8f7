package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/aparnaappu2002/planzo-backend/pkg/logger"
	"github.com/aparnaappu2002/planzo-backend/pkg/retry"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

// Producer is the publishing surface the notifier needs; satisfied by
// kafka.Producer.
type Producer interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

// KafkaNotifier publishes EmailEvents to the notification topic with
// exponential backoff. The recipient address keys the record so mails
// for one address stay ordered.
type KafkaNotifier struct {
	producer Producer
	topic    string
	retryCfg *retry.Config
}

// NewKafkaNotifier creates a new KafkaNotifier
func NewKafkaNotifier(producer Producer, topic string, retryCfg *retry.Config) *KafkaNotifier {
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	return &KafkaNotifier{producer: producer, topic: topic, retryCfg: retryCfg}
}

func (n *KafkaNotifier) publish(ctx context.Context, event *EmailEvent) error {
	ctx, span := telemetry.StartSpan(ctx, "notifier.kafka.publish")
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode email event: %w", err)
	}

	err = retry.Do(ctx, n.retryCfg, func(ctx context.Context) error {
		return n.producer.Publish(ctx, n.topic, event.To, payload)
	})
	if err != nil {
		logger.Get().Warn("failed to publish email event",
			zap.String("type", event.Type),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// SendOtp publishes a registration-code mail event
func (n *KafkaNotifier) SendOtp(ctx context.Context, email, code string) error {
	return n.publish(ctx, &EmailEvent{
		Type:    TypeOtp,
		To:      email,
		Subject: "Your Planzo verification code",
		Data:    map[string]string{"code": code},
	})
}

// SendResetLink publishes a password-reset mail event
func (n *KafkaNotifier) SendResetLink(ctx context.Context, email, link string) error {
	return n.publish(ctx, &EmailEvent{
		Type:    TypeResetLink,
		To:      email,
		Subject: "Reset your Planzo password",
		Data:    map[string]string{"link": link},
	})
}

// SendVendorDecision publishes a vendor approval/rejection mail event
func (n *KafkaNotifier) SendVendorDecision(ctx context.Context, email string, approved bool, reason string) error {
	decision := "approved"
	if !approved {
		decision = "rejected"
	}
	data := map[string]string{"decision": decision}
	if reason != "" {
		data["reason"] = reason
	}
	return n.publish(ctx, &EmailEvent{
		Type:    TypeVendorDecision,
		To:      email,
		Subject: "Your Planzo vendor application",
		Data:    data,
	})
}

// SendAccountStatus publishes a block/unblock mail event
func (n *KafkaNotifier) SendAccountStatus(ctx context.Context, email, status string) error {
	return n.publish(ctx, &EmailEvent{
		Type:    TypeAccountStatus,
		To:      email,
		Subject: "Your Planzo account status changed",
		Data:    map[string]string{"status": status},
	})
}
