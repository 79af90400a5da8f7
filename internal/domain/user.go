package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role identifies which principal collection a user lives in
type Role string

const (
	RoleClient Role = "client"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// Status is the account-level state of any principal
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "block"
)

// VendorStatus is the approval state of a vendor account
type VendorStatus string

const (
	VendorPending  VendorStatus = "pending"
	VendorApproved VendorStatus = "approved"
	VendorRejected VendorStatus = "rejected"
)

// User represents a principal (client, vendor or admin)
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID         string             `bson:"userId" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash   string             `bson:"passwordHash" json:"-"` // never serialize
	Role           Role               `bson:"role" json:"role"`
	Status         Status             `bson:"status" json:"status"`
	GoogleVerified bool               `bson:"googleVerified" json:"googleVerified"`

	// Vendor-only fields
	VendorID     string       `bson:"vendorId,omitempty" json:"vendorId,omitempty"`
	VendorStatus VendorStatus `bson:"vendorStatus,omitempty" json:"vendorStatus,omitempty"`
	RejectReason string       `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`
	IDProof      string       `bson:"idProof,omitempty" json:"idProof,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsBlocked reports whether the account is blocked
func (u *User) IsBlocked() bool {
	return u.Status == StatusBlocked
}

// StatusSnapshot is the cached gate-check view of a principal.
// It is what lives behind the user:<role>:<id> cache key.
type StatusSnapshot struct {
	Status       Status       `json:"status"`
	VendorStatus VendorStatus `json:"vendorStatus,omitempty"`
}

// Snapshot extracts the cacheable status view of the user
func (u *User) Snapshot() StatusSnapshot {
	return StatusSnapshot{
		Status:       u.Status,
		VendorStatus: u.VendorStatus,
	}
}
