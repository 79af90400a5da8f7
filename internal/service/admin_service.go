package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/dto"
	"github.com/aparnaappu2002/planzo-backend/internal/notifier"
	"github.com/aparnaappu2002/planzo-backend/internal/repository"
	"github.com/aparnaappu2002/planzo-backend/pkg/logger"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

// AdminService implements the moderation workflows: principal listing,
// block/unblock and the vendor approval queue.
type AdminService interface {
	ListUsers(ctx context.Context, role domain.Role, q *dto.ListQuery) ([]*domain.User, int64, error)
	ListPendingVendors(ctx context.Context, q *dto.ListQuery) ([]*domain.User, int64, error)
	// SetUserStatus blocks or unblocks a principal. The status cache is
	// refreshed in the same call so gating sees the change immediately.
	SetUserStatus(ctx context.Context, role domain.Role, userID string, block bool) error
	ApproveVendor(ctx context.Context, userID string) error
	RejectVendor(ctx context.Context, userID, reason string) error
}

type adminService struct {
	repos       map[domain.Role]repository.UserRepository
	statusCache repository.StatusCache
	notifier    notifier.Notifier
}

// NewAdminService creates a new AdminService
func NewAdminService(
	repos map[domain.Role]repository.UserRepository,
	statusCache repository.StatusCache,
	notif notifier.Notifier,
) AdminService {
	return &adminService{
		repos:       repos,
		statusCache: statusCache,
		notifier:    notif,
	}
}

func (s *adminService) ListUsers(ctx context.Context, role domain.Role, q *dto.ListQuery) ([]*domain.User, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.list_users")
	defer span.End()

	span.SetAttributes(attribute.String("role", string(role)))

	repo, ok := s.repos[role]
	if !ok {
		span.SetStatus(codes.Error, "unknown role")
		return nil, 0, ErrUserNotFound
	}

	q.Normalize()
	users, total, err := repo.List(ctx, q.Limit, q.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetStatus(codes.Ok, "")
	return users, total, nil
}

func (s *adminService) ListPendingVendors(ctx context.Context, q *dto.ListQuery) ([]*domain.User, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.list_pending_vendors")
	defer span.End()

	q.Normalize()
	vendors, total, err := s.repos[domain.RoleVendor].ListByVendorStatus(ctx, domain.VendorPending, q.Limit, q.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetStatus(codes.Ok, "")
	return vendors, total, nil
}

// SetUserStatus blocks or unblocks a principal
func (s *adminService) SetUserStatus(ctx context.Context, role domain.Role, userID string, block bool) error {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.set_user_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("role", string(role)),
		attribute.String("user_id", userID),
		attribute.Bool("block", block),
	)

	repo, ok := s.repos[role]
	if !ok {
		span.SetStatus(codes.Error, "unknown role")
		return ErrUserNotFound
	}

	user, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return ErrUserNotFound
	}

	status := domain.StatusActive
	if block {
		status = domain.StatusBlocked
	}

	if err := repo.UpdateStatus(ctx, userID, status); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// Refresh, not just invalidate: gating must see the new status
	// before the cache would naturally expire
	user.Status = status
	if err := s.statusCache.SetSnapshot(ctx, role, userID, user.Snapshot()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.notifier.SendAccountStatus(ctx, user.Email, string(status)); err != nil {
		logger.Get().Warn("status mail not published", zap.Error(err))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *adminService) ApproveVendor(ctx context.Context, userID string) error {
	return s.decideVendor(ctx, userID, domain.VendorApproved, "")
}

func (s *adminService) RejectVendor(ctx context.Context, userID, reason string) error {
	return s.decideVendor(ctx, userID, domain.VendorRejected, reason)
}

func (s *adminService) decideVendor(ctx context.Context, userID string, decision domain.VendorStatus, reason string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.decide_vendor")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("decision", string(decision)),
	)

	repo := s.repos[domain.RoleVendor]
	user, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return ErrUserNotFound
	}
	if user.VendorStatus != domain.VendorPending {
		span.SetStatus(codes.Error, "already decided")
		return ErrVendorNotPending
	}

	if err := repo.UpdateVendorDecision(ctx, userID, decision, reason); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	user.VendorStatus = decision
	if err := s.statusCache.SetSnapshot(ctx, domain.RoleVendor, userID, user.Snapshot()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	approved := decision == domain.VendorApproved
	if err := s.notifier.SendVendorDecision(ctx, user.Email, approved, reason); err != nil {
		logger.Get().Warn("decision mail not published", zap.Error(err))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
