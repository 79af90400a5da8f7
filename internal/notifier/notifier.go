package notifier

import "context"

// EmailEvent is the payload published to the notification topic.
// A downstream mailer owns templating; we only carry the facts.
type EmailEvent struct {
	Type    string            `json:"type"`
	To      string            `json:"to"`
	Subject string            `json:"subject"`
	Data    map[string]string `json:"data,omitempty"`
}

// Mail event types
const (
	TypeOtp            = "auth.otp"
	TypeResetLink      = "auth.reset_link"
	TypeVendorDecision = "vendor.decision"
	TypeAccountStatus  = "account.status"
)

// Notifier publishes outbound mail events. Implementations are
// best-effort; callers log failures and never surface them to users.
type Notifier interface {
	SendOtp(ctx context.Context, email, code string) error
	SendResetLink(ctx context.Context, email, link string) error
	SendVendorDecision(ctx context.Context, email string, approved bool, reason string) error
	SendAccountStatus(ctx context.Context, email, status string) error
}

// Noop is a Notifier that discards everything. Used when the broker
// is disabled in config.
type Noop struct{}

func (Noop) SendOtp(ctx context.Context, email, code string) error { return nil }
func (Noop) SendResetLink(ctx context.Context, email, link string) error {
	return nil
}
func (Noop) SendVendorDecision(ctx context.Context, email string, approved bool, reason string) error {
	return nil
}
func (Noop) SendAccountStatus(ctx context.Context, email, status string) error {
	return nil
}
