package dashboard

import (
	"errors"
	"net/http"
	"time"

	"tourdesk/internal/bookings"
	"tourdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CalendarQuery struct {
	Year  int `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

type Controller interface {
	GetOverview(c *gin.Context)
	GetCalendar(c *gin.Context)
	GetBookingDetail(c *gin.Context)
}

type controller struct {
	service Service
	now     func() time.Time
}

func NewController(service Service) Controller {
	return &controller{service: service, now: time.Now}
}

func (ctrl *controller) GetOverview(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	overview, err := ctrl.service.GetOverview(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard overview retrieved successfully", overview, nil)
}

func (ctrl *controller) GetCalendar(c *gin.Context) {
	var query CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	// Default to the current month
	now := ctrl.now()
	if query.Year == 0 {
		query.Year = now.Year()
	}
	if query.Month == 0 {
		query.Month = int(now.Month())
	}

	cal, err := ctrl.service.GetCalendar(c.Request.Context(), query.Year, time.Month(query.Month), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking calendar retrieved successfully", cal, nil)
}

func (ctrl *controller) GetBookingDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	detail, err := ctrl.service.GetBookingDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking detail retrieved successfully", detail, nil)
}

func bindFilter(c *gin.Context) (bookings.Filter, bool) {
	var query bookings.BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return bookings.Filter{}, false
	}

	filter, err := query.ToFilter()
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return bookings.Filter{}, false
	}
	return filter, true
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidMonth) {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	code := bookings.HTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		response.RespondJSON(c, "error", code, "Failed to load dashboard", nil, nil)
		return
	}
	response.RespondJSON(c, "error", code, err.Error(), nil, nil)
}
