package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vaultconnect/internal/domain"
)

type WidgetResponse struct {
	ID         string          `json:"id"`
	WidgetType string          `json:"widgetType"`
	Settings   json.RawMessage `json:"settings"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

type createWidgetRequest struct {
	WidgetType string          `json:"widgetType" binding:"required"`
	Settings   json.RawMessage `json:"settings"`
}

type updateWidgetRequest struct {
	WidgetType *string         `json:"widgetType"`
	Settings   json.RawMessage `json:"settings"`
}

func (h *Handler) listWidgets(c *gin.Context) {
	widgets, err := h.widgets.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]WidgetResponse, len(widgets))
	for i := range widgets {
		resp[i] = widgetToResponse(widgets[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createWidget(c *gin.Context) {
	var req createWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	widget, err := h.widgets.Create(c.Request.Context(), currentUserID(c), domain.WidgetType(req.WidgetType), req.Settings)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, widgetToResponse(*widget))
}

func (h *Handler) getWidget(c *gin.Context) {
	widget, err := h.widgets.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, widgetToResponse(*widget))
}

func (h *Handler) updateWidget(c *gin.Context) {
	var req updateWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var widgetType *domain.WidgetType
	if req.WidgetType != nil {
		t := domain.WidgetType(*req.WidgetType)
		widgetType = &t
	}

	widget, err := h.widgets.Update(c.Request.Context(), currentUserID(c), c.Param("id"), widgetType, req.Settings)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, widgetToResponse(*widget))
}

func (h *Handler) deleteWidget(c *gin.Context) {
	if err := h.widgets.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// previewRSS fetches a feed server-side for the RSS widget, so the browser
// never talks to arbitrary user-supplied hosts.
func (h *Handler) previewRSS(c *gin.Context) {
	preview, err := h.feeds.Preview(c.Request.Context(), c.Query("url"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

func widgetToResponse(widget domain.Widget) WidgetResponse {
	return WidgetResponse{
		ID:         widget.ID,
		WidgetType: string(widget.Type),
		Settings:   widget.Settings,
		CreatedAt:  widget.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  widget.UpdatedAt.Format(time.RFC3339),
	}
}
