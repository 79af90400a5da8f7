package repository

import (
	"context"
	"time"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
)

// UserRepository provides access to one principal collection
// (clients, vendors or admins).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUserID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateStatus(ctx context.Context, userID string, status domain.Status) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, int64, error)
	// ListByVendorStatus is only meaningful on the vendors collection
	ListByVendorStatus(ctx context.Context, status domain.VendorStatus, limit, offset int) ([]*domain.User, int64, error)
	UpdateVendorDecision(ctx context.Context, userID string, status domain.VendorStatus, reason string) error
}

// EventFilter narrows event listings
type EventFilter struct {
	VendorID string
	Status   domain.EventStatus
	Category string
	Search   string
	Limit    int
	Offset   int
}

// SetDefaults sets default values for pagination
func (f *EventFilter) SetDefaults() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// EventRepository provides access to the events collection
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByEventID(ctx context.Context, eventID string) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	UpdateStatus(ctx context.Context, eventID string, status domain.EventStatus) error
	Delete(ctx context.Context, eventID string) error
	List(ctx context.Context, filter *EventFilter) ([]*domain.Event, int64, error)
}

// TokenBlacklist records logged-out access tokens until their natural expiry
type TokenBlacklist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

// StatusCache caches per-principal status snapshots and the singleton
// admin flag, bounding document-store lookups on the request path.
type StatusCache interface {
	GetSnapshot(ctx context.Context, role domain.Role, userID string) (*domain.StatusSnapshot, error)
	SetSnapshot(ctx context.Context, role domain.Role, userID string, snap domain.StatusSnapshot) error
	DeleteSnapshot(ctx context.Context, role domain.Role, userID string) error
	GetAdminFlag(ctx context.Context) (string, bool, error)
	SetAdminFlag(ctx context.Context, value string) error
}

// OtpStore holds one-time registration codes with a short TTL
type OtpStore interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	// Consume returns the stored code and deletes it atomically;
	// found is false when no code exists (expired or never requested)
	Consume(ctx context.Context, email string) (code string, found bool, err error)
}

// ResetTokenStore persists issued and consumed password-reset tokens
// in the shared cache so replay is rejected across instances.
type ResetTokenStore interface {
	StoreIssued(ctx context.Context, email, token string, ttl time.Duration) error
	GetIssued(ctx context.Context, email string) (token string, found bool, err error)
	DeleteIssued(ctx context.Context, email string) error
	MarkUsed(ctx context.Context, token string, ttl time.Duration) error
	IsUsed(ctx context.Context, token string) (bool, error)
}
