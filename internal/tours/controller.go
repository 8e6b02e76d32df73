package tours

import (
	"errors"
	"net/http"

	"tourdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	// Public storefront
	ListTours(c *gin.Context)
	GetTourBySlug(c *gin.Context)

	// Admin catalogue
	CreateTour(c *gin.Context)
	GetTour(c *gin.Context)
	UpdateTour(c *gin.Context)
	DeleteTour(c *gin.Context)
	ListAllTours(c *gin.Context)

	// Admin pricing options
	AddPricingOption(c *gin.Context)
	UpdatePricingOption(c *gin.Context)
	DeletePricingOption(c *gin.Context)
	ReorderPricingOptions(c *gin.Context)
	MovePricingOption(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListTours(c *gin.Context) {
	var query TourListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	query.IncludeInactive = false

	result, err := ctrl.service.ListTours(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tours retrieved successfully", result, nil)
}

func (ctrl *controller) ListAllTours(c *gin.Context) {
	var query TourListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	query.IncludeInactive = true

	result, err := ctrl.service.ListTours(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tours retrieved successfully", result, nil)
}

func (ctrl *controller) GetTourBySlug(c *gin.Context) {
	tour, err := ctrl.service.GetTourBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tour retrieved successfully", tour, nil)
}

func (ctrl *controller) CreateTour(c *gin.Context) {
	var req CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	adminID, ok := adminFromContext(c)
	if !ok {
		return
	}

	tour, err := ctrl.service.CreateTour(c.Request.Context(), adminID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Tour created successfully", tour, nil)
}

func (ctrl *controller) GetTour(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid tour ID")
	if !ok {
		return
	}

	tour, err := ctrl.service.GetTourByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tour retrieved successfully", tour, nil)
}

func (ctrl *controller) UpdateTour(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid tour ID")
	if !ok {
		return
	}

	var req UpdateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	adminID, ok := adminFromContext(c)
	if !ok {
		return
	}

	tour, err := ctrl.service.UpdateTour(c.Request.Context(), id, adminID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tour updated successfully", tour, nil)
}

func (ctrl *controller) DeleteTour(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid tour ID")
	if !ok {
		return
	}

	if err := ctrl.service.DeleteTour(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tour deleted successfully", nil, nil)
}

func (ctrl *controller) AddPricingOption(c *gin.Context) {
	tourID, ok := parseID(c, "id", "Invalid tour ID")
	if !ok {
		return
	}

	var req PricingOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	option, err := ctrl.service.AddPricingOption(c.Request.Context(), tourID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Pricing option added successfully", option, nil)
}

func (ctrl *controller) UpdatePricingOption(c *gin.Context) {
	tourID, ok := parseID(c, "id", "Invalid tour ID")
	if !ok {
		return
	}
	optionID, ok := parseID(c, "optionId", "Invalid pricing option ID")
	if !ok {
		return
	}

	var req UpdatePricingOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	option, err := ctrl.service.UpdatePricingOption(c.Request.Context(), tourID, optionID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pricing option updated successfully", option, nil)
}

func (ctrl *controller) DeletePricingOption(c *gin.Context) {
	tourID, ok := parseID(c, "id", "Invalid tour ID")
	if !ok {
		return
	}
	optionID, ok := parseID(c, "optionId", "Invalid pricing option ID")
	if !ok {
		return
	}

	if err := ctrl.service.DeletePricingOption(c.Request.Context(), tourID, optionID); err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pricing option deleted successfully", nil, nil)
}

func (ctrl *controller) ReorderPricingOptions(c *gin.Context) {
	tourID, ok := parseID(c, "id", "Invalid tour ID")
	if !ok {
		return
	}

	var req ReorderOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ids, err := parseIDs(req.OptionIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	options, err := ctrl.service.ReorderPricingOptions(c.Request.Context(), tourID, ids)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pricing options reordered successfully", options, nil)
}

func (ctrl *controller) MovePricingOption(c *gin.Context) {
	tourID, ok := parseID(c, "id", "Invalid tour ID")
	if !ok {
		return
	}
	optionID, ok := parseID(c, "optionId", "Invalid pricing option ID")
	if !ok {
		return
	}

	var req MoveOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	options, err := ctrl.service.MovePricingOption(c.Request.Context(), tourID, optionID, *req.To)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pricing option moved successfully", options, nil)
}

func parseID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, message, nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func adminFromContext(c *gin.Context) (uuid.UUID, bool) {
	adminID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return uuid.Nil, false
	}

	adminUUID, err := uuid.Parse(adminID.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid admin ID format", nil, nil)
		return uuid.Nil, false
	}
	return adminUUID, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTourNotFound), errors.Is(err, ErrOptionNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrTourExists), errors.Is(err, ErrTourHasBookings):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidTour), errors.Is(err, ErrInvalidReorder):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		_ = c.Error(err)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to process tour request", nil, nil)
	}
}
