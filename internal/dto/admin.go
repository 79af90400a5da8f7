package dto

// ListQuery carries pagination from the query string
type ListQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Normalize clamps pagination to sane bounds
func (q *ListQuery) Normalize() {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// RejectVendorRequest carries the reason a vendor application was turned down
type RejectVendorRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// UpdateProfileRequest represents a principal editing their own profile
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2"`
	Phone string `json:"phone"`
}
