package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/dto"
	"github.com/aparnaappu2002/planzo-backend/internal/service"
	"github.com/aparnaappu2002/planzo-backend/pkg/response"
)

// AdminHandler handles moderation HTTP requests
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListClients returns paginated clients
// GET /api/v1/admin/clients
func (h *AdminHandler) ListClients(c *gin.Context) {
	h.listUsers(c, domain.RoleClient)
}

// ListVendors returns paginated vendors
// GET /api/v1/admin/vendors
func (h *AdminHandler) ListVendors(c *gin.Context) {
	h.listUsers(c, domain.RoleVendor)
}

func (h *AdminHandler) listUsers(c *gin.Context, role domain.Role) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Normalize()

	users, total, err := h.adminService.ListUsers(c.Request.Context(), role, &q)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	page := q.Offset/q.Limit + 1
	response.Paginated(c, users, page, q.Limit, total)
}

// ListPendingVendors returns vendors awaiting a decision
// GET /api/v1/admin/vendors/pending
func (h *AdminHandler) ListPendingVendors(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Normalize()

	vendors, total, err := h.adminService.ListPendingVendors(c.Request.Context(), &q)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	page := q.Offset/q.Limit + 1
	response.Paginated(c, vendors, page, q.Limit, total)
}

// Block blocks a principal
// PATCH /api/v1/admin/users/:role/:id/block
func (h *AdminHandler) Block(c *gin.Context) {
	h.setStatus(c, true)
}

// Unblock unblocks a principal
// PATCH /api/v1/admin/users/:role/:id/unblock
func (h *AdminHandler) Unblock(c *gin.Context) {
	h.setStatus(c, false)
}

func (h *AdminHandler) setStatus(c *gin.Context, block bool) {
	role := domain.Role(c.Param("role"))
	if !role.Valid() || role == domain.RoleAdmin {
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Unknown role", "")
		return
	}

	err := h.adminService.SetUserStatus(c.Request.Context(), role, c.Param("id"), block)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Status updated"})
}

// ApproveVendor approves a pending vendor application
// PATCH /api/v1/admin/vendors/:id/approve
func (h *AdminHandler) ApproveVendor(c *gin.Context) {
	if err := h.adminService.ApproveVendor(c.Request.Context(), c.Param("id")); err != nil {
		h.decisionError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Vendor approved"})
}

// RejectVendor rejects a pending vendor application
// PATCH /api/v1/admin/vendors/:id/reject
func (h *AdminHandler) RejectVendor(c *gin.Context) {
	var req dto.RejectVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.adminService.RejectVendor(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		h.decisionError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Vendor rejected"})
}

func (h *AdminHandler) decisionError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		response.NotFound(c, "Vendor not found")
		return
	}
	if errors.Is(err, service.ErrVendorNotPending) {
		response.Conflict(c, "ALREADY_DECIDED", "Vendor application already decided")
		return
	}
	response.InternalError(c, err)
}
