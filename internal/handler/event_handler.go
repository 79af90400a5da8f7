package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aparnaappu2002/planzo-backend/internal/dto"
	"github.com/aparnaappu2002/planzo-backend/internal/middleware"
	"github.com/aparnaappu2002/planzo-backend/internal/service"
	"github.com/aparnaappu2002/planzo-backend/pkg/response"
)

// EventHandler handles event HTTP requests
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List returns the public event listing
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	var q dto.EventListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	events, total, err := h.eventService.ListEvents(c.Request.Context(), &q)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := q.Offset/limit + 1
	response.Paginated(c, events, page, limit, total)
}

// Get returns one event by its public id
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(c, "Event not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, event)
}

// Create creates an event for the authenticated vendor
// POST /api/v1/vendor/events
func (h *EventHandler) Create(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), id.ID, &req)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Created(c, event)
}

// Update edits one of the vendor's own events
// PUT /api/v1/vendor/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), id.ID, c.Param("id"), &req)
	if err != nil {
		h.ownershipError(c, err)
		return
	}

	response.Success(c, event)
}

// Cancel cancels one of the vendor's own events
// DELETE /api/v1/vendor/events/:id
func (h *EventHandler) Cancel(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.eventService.CancelEvent(c.Request.Context(), id.ID, c.Param("id")); err != nil {
		h.ownershipError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Event cancelled"})
}

// ListOwn returns the authenticated vendor's events
// GET /api/v1/vendor/events
func (h *EventHandler) ListOwn(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Normalize()

	events, total, err := h.eventService.ListVendorEvents(c.Request.Context(), id.ID, &q)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	page := q.Offset/q.Limit + 1
	response.Paginated(c, events, page, q.Limit, total)
}

func (h *EventHandler) ownershipError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrEventNotFound) {
		response.NotFound(c, "Event not found")
		return
	}
	if errors.Is(err, service.ErrNotEventOwner) {
		response.Error(c, http.StatusForbidden, "NOT_EVENT_OWNER", "Event belongs to another vendor", "")
		return
	}
	response.InternalError(c, err)
}
