package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

// MongoUserRepository implements UserRepository over one MongoDB collection
type MongoUserRepository struct {
	coll *mongo.Collection
	role domain.Role
}

// NewMongoUserRepository creates a repository bound to the collection
// for the given role (clients, vendors, admins).
func NewMongoUserRepository(db *mongo.Database, role domain.Role) *MongoUserRepository {
	var name string
	switch role {
	case domain.RoleVendor:
		name = "vendors"
	case domain.RoleAdmin:
		name = "admins"
	default:
		name = "clients"
	}
	return &MongoUserRepository{coll: db.Collection(name), role: role}
}

// Create inserts a new principal
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.user.create")
	defer span.End()
	span.SetAttributes(attribute.String("role", string(r.role)))

	_, err := r.coll.InsertOne(ctx, user)
	return err
}

// GetByUserID retrieves a principal by its public id
func (r *MongoUserRepository) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.user.get_by_id")
	defer span.End()

	user := &domain.User{}
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a principal by email
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.user.get_by_email")
	defer span.End()

	user := &domain.User{}
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// ExistsByEmail checks whether any principal in this collection holds the email
func (r *MongoUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.user.exists_by_email")
	defer span.End()

	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update replaces the profile fields of a principal. Status is owned
// by UpdateStatus so a profile save cannot undo a concurrent block.
func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.user.update")
	defer span.End()

	user.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":      user.Name,
		"phone":     user.Phone,
		"updatedAt": user.UpdatedAt,
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"userId": user.UserID}, update)
	return err
}

// UpdateStatus sets the block/active status of a principal
func (r *MongoUserRepository) UpdateStatus(ctx context.Context, userID string, status domain.Status) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.user.update_status")
	defer span.End()
	span.SetAttributes(attribute.String("status", string(status)))

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *MongoUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.user.update_password")
	defer span.End()

	update := bson.M{"$set": bson.M{"passwordHash": passwordHash, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// List returns a page of principals ordered by creation time
func (r *MongoUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.user.list")
	defer span.End()

	return r.list(ctx, bson.M{}, limit, offset)
}

// ListByVendorStatus returns a page of vendors in the given approval state
func (r *MongoUserRepository) ListByVendorStatus(ctx context.Context, status domain.VendorStatus, limit, offset int) ([]*domain.User, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.user.list_by_vendor_status")
	defer span.End()
	span.SetAttributes(attribute.String("vendor_status", string(status)))

	return r.list(ctx, bson.M{"vendorStatus": status}, limit, offset)
}

func (r *MongoUserRepository) list(ctx context.Context, filter bson.M, limit, offset int) ([]*domain.User, int64, error) {
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateVendorDecision records an admin approval or rejection
func (r *MongoUserRepository) UpdateVendorDecision(ctx context.Context, userID string, status domain.VendorStatus, reason string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.mongo.user.update_vendor_decision")
	defer span.End()
	span.SetAttributes(attribute.String("vendor_status", string(status)))

	set := bson.M{"vendorStatus": status, "updatedAt": time.Now()}
	if status == domain.VendorRejected {
		set["rejectReason"] = reason
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
