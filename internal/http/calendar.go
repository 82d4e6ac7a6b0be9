package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vaultconnect/internal/domain"
	"vaultconnect/internal/service"
)

type EventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	Location    string `json:"location,omitempty"`
	Color       string `json:"color,omitempty"`
	AllDay      bool   `json:"all_day"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type eventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
	Location    string    `json:"location"`
	Color       string    `json:"color"`
	AllDay      bool      `json:"all_day"`
}

func (h *Handler) listEvents(c *gin.Context) {
	events, err := h.calendar.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = eventToResponse(events[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.calendar.Create(c.Request.Context(), currentUserID(c), eventInput(req))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, eventToResponse(*event))
}

func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.calendar.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, eventToResponse(*event))
}

func (h *Handler) updateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.calendar.Update(c.Request.Context(), currentUserID(c), c.Param("id"), eventInput(req))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, eventToResponse(*event))
}

func (h *Handler) deleteEvent(c *gin.Context) {
	if err := h.calendar.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func eventInput(req eventRequest) service.EventInput {
	return service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Location:    req.Location,
		Color:       req.Color,
		AllDay:      req.AllDay,
	}
}

func eventToResponse(event domain.CalendarEvent) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		StartsAt:    event.StartsAt.Format(time.RFC3339),
		EndsAt:      event.EndsAt.Format(time.RFC3339),
		Location:    event.Location,
		Color:       event.Color,
		AllDay:      event.AllDay,
		CreatedAt:   event.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   event.UpdatedAt.Format(time.RFC3339),
	}
}
