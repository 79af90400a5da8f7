package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/repository"
)

// mockUserRepository is an in-memory UserRepository
type mockUserRepository struct {
	users       map[string]*domain.User
	emailIndex  map[string]*domain.User
	createError error
	getCalls    int
	afterGet    func() // runs after GetByUserID, for interleaving writes
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:      make(map[string]*domain.User),
		emailIndex: make(map[string]*domain.User),
	}
}

func (r *mockUserRepository) add(user *domain.User) {
	r.users[user.UserID] = user
	r.emailIndex[user.Email] = user
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if r.createError != nil {
		return r.createError
	}
	r.add(user)
	return nil
}

// Lookups return copies, like the driver decoding into a fresh struct
func (r *mockUserRepository) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	r.getCalls++
	user := copyUser(r.users[userID])
	if r.afterGet != nil {
		r.afterGet()
	}
	return user, nil
}

func (r *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return copyUser(r.emailIndex[email]), nil
}

func copyUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clone := *user
	return &clone
}

func (r *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, exists := r.emailIndex[email]
	return exists, nil
}

// Update writes profile fields only; status stays whatever UpdateStatus set
func (r *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if stored, ok := r.users[user.UserID]; ok {
		stored.Name = user.Name
		stored.Phone = user.Phone
		stored.UpdatedAt = user.UpdatedAt
	}
	return nil
}

func (r *mockUserRepository) UpdateStatus(ctx context.Context, userID string, status domain.Status) error {
	if user := r.users[userID]; user != nil {
		user.Status = status
	}
	return nil
}

func (r *mockUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	if user := r.users[userID]; user != nil {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (r *mockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *mockUserRepository) ListByVendorStatus(ctx context.Context, status domain.VendorStatus, limit, offset int) ([]*domain.User, int64, error) {
	var matched []*domain.User
	for _, u := range r.users {
		if u.VendorStatus == status {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UserID < matched[j].UserID })
	return matched, int64(len(matched)), nil
}

func (r *mockUserRepository) UpdateVendorDecision(ctx context.Context, userID string, status domain.VendorStatus, reason string) error {
	if user := r.users[userID]; user != nil {
		user.VendorStatus = status
		user.RejectReason = reason
	}
	return nil
}

// mockEventRepository is an in-memory EventRepository
type mockEventRepository struct {
	events map[string]*domain.Event
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{events: make(map[string]*domain.Event)}
}

func (r *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.events[event.EventID] = event
	return nil
}

func (r *mockEventRepository) GetByEventID(ctx context.Context, eventID string) (*domain.Event, error) {
	return r.events[eventID], nil
}

func (r *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	r.events[event.EventID] = event
	return nil
}

func (r *mockEventRepository) UpdateStatus(ctx context.Context, eventID string, status domain.EventStatus) error {
	if event := r.events[eventID]; event != nil {
		event.Status = status
	}
	return nil
}

func (r *mockEventRepository) Delete(ctx context.Context, eventID string) error {
	delete(r.events, eventID)
	return nil
}

func (r *mockEventRepository) List(ctx context.Context, filter *repository.EventFilter) ([]*domain.Event, int64, error) {
	var matched []*domain.Event
	for _, e := range r.events {
		if filter.VendorID != "" && e.VendorID != filter.VendorID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].EventID < matched[j].EventID })
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], total, nil
}

// mockBlacklist records blacklisted tokens with their TTLs
type mockBlacklist struct {
	entries map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{entries: make(map[string]time.Duration)}
}

func (b *mockBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	b.entries[token] = ttl
	return nil
}

func (b *mockBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	_, ok := b.entries[token]
	return ok, nil
}

// mockStatusCache is an in-memory StatusCache
type mockStatusCache struct {
	snapshots map[string]domain.StatusSnapshot
	adminFlag string
	adminSet  bool
	getCalls  int
}

func newMockStatusCache() *mockStatusCache {
	return &mockStatusCache{snapshots: make(map[string]domain.StatusSnapshot)}
}

func snapKey(role domain.Role, userID string) string {
	return string(role) + ":" + userID
}

func (c *mockStatusCache) GetSnapshot(ctx context.Context, role domain.Role, userID string) (*domain.StatusSnapshot, error) {
	c.getCalls++
	snap, ok := c.snapshots[snapKey(role, userID)]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (c *mockStatusCache) SetSnapshot(ctx context.Context, role domain.Role, userID string, snap domain.StatusSnapshot) error {
	c.snapshots[snapKey(role, userID)] = snap
	return nil
}

func (c *mockStatusCache) DeleteSnapshot(ctx context.Context, role domain.Role, userID string) error {
	delete(c.snapshots, snapKey(role, userID))
	return nil
}

func (c *mockStatusCache) GetAdminFlag(ctx context.Context) (string, bool, error) {
	return c.adminFlag, c.adminSet, nil
}

func (c *mockStatusCache) SetAdminFlag(ctx context.Context, value string) error {
	c.adminFlag = value
	c.adminSet = true
	return nil
}

// mockOtpStore is an in-memory OtpStore
type mockOtpStore struct {
	codes map[string]string
}

func newMockOtpStore() *mockOtpStore {
	return &mockOtpStore{codes: make(map[string]string)}
}

func (s *mockOtpStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	s.codes[email] = code
	return nil
}

func (s *mockOtpStore) Consume(ctx context.Context, email string) (string, bool, error) {
	code, ok := s.codes[email]
	if ok {
		delete(s.codes, email)
	}
	return code, ok, nil
}

// mockResetStore is an in-memory ResetTokenStore
type mockResetStore struct {
	issued map[string]string
	used   map[string]bool
}

func newMockResetStore() *mockResetStore {
	return &mockResetStore{
		issued: make(map[string]string),
		used:   make(map[string]bool),
	}
}

func (s *mockResetStore) StoreIssued(ctx context.Context, email, token string, ttl time.Duration) error {
	s.issued[email] = token
	return nil
}

func (s *mockResetStore) GetIssued(ctx context.Context, email string) (string, bool, error) {
	token, ok := s.issued[email]
	return token, ok, nil
}

func (s *mockResetStore) DeleteIssued(ctx context.Context, email string) error {
	delete(s.issued, email)
	return nil
}

func (s *mockResetStore) MarkUsed(ctx context.Context, token string, ttl time.Duration) error {
	s.used[token] = true
	return nil
}

func (s *mockResetStore) IsUsed(ctx context.Context, token string) (bool, error) {
	return s.used[token], nil
}

// mockNotifier records what would have been mailed
type mockNotifier struct {
	otps      map[string]string
	links     map[string]string
	decisions map[string]string
	statuses  map[string]string
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{
		otps:      make(map[string]string),
		links:     make(map[string]string),
		decisions: make(map[string]string),
		statuses:  make(map[string]string),
	}
}

func (n *mockNotifier) SendOtp(ctx context.Context, email, code string) error {
	n.otps[email] = code
	return nil
}

func (n *mockNotifier) SendResetLink(ctx context.Context, email, link string) error {
	n.links[email] = link
	return nil
}

func (n *mockNotifier) SendVendorDecision(ctx context.Context, email string, approved bool, reason string) error {
	decision := "approved"
	if !approved {
		decision = "rejected"
	}
	n.decisions[email] = decision
	return nil
}

func (n *mockNotifier) SendAccountStatus(ctx context.Context, email, status string) error {
	n.statuses[email] = status
	return nil
}
