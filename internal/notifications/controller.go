package notifications

import (
	"errors"
	"net/http"

	"tourdesk/internal/bookings"
	"tourdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	ListTemplates(c *gin.Context)
	GetTemplate(c *gin.Context)
	PreviewTemplate(c *gin.Context)
	SendTestEmail(c *gin.Context)
}

type controller struct {
	service NotificationService
}

func NewController(service NotificationService) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListTemplates(c *gin.Context) {
	templates := Templates()
	result := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		result = append(result, t.ToResponse())
	}

	response.RespondJSON(c, "success", http.StatusOK, "Email templates retrieved successfully", result, nil)
}

func (ctrl *controller) GetTemplate(c *gin.Context) {
	t, err := GetTemplate(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Email template retrieved successfully", t.ToResponse(), nil)
}

func (ctrl *controller) PreviewTemplate(c *gin.Context) {
	t, err := GetTemplate(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req PreviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
			return
		}
	}

	rendered, err := t.Render(mergeSampleData(req.Data))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Email preview rendered successfully", rendered, nil)
}

func (ctrl *controller) SendTestEmail(c *gin.Context) {
	t, err := GetTemplate(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	data := mergeSampleData(req.Data)
	data[bookings.PlaceholderCustomerEmail] = req.Email
	if req.Name != "" {
		data[bookings.PlaceholderCustomerName] = req.Name
	}

	notification := NewNotificationBuilder().
		WithTemplate(t.ID).
		WithRecipient(req.Email, req.Name).
		WithTemplateData(data).
		WithMaxRetries(0).
		Build()

	if ctrl.service == nil {
		respondError(c, ErrServiceStopped)
		return
	}
	if err := ctrl.service.Send(c.Request.Context(), notification); err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusAccepted, "Test email queued", gin.H{
		"notification_id": notification.ID,
		"mode":            ctrl.service.Mode(),
	}, nil)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTemplateNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Email template not found", nil, err.Error())
	case errors.Is(err, ErrServiceStopped):
		response.RespondJSON(c, "error", http.StatusServiceUnavailable, "Notification service unavailable", nil, err.Error())
	default:
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to process email template", nil, err.Error())
	}
}
