package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/engage-dash-api/internal/dto"
	"github.com/noah-isme/engage-dash-api/internal/models"
	"github.com/noah-isme/engage-dash-api/internal/service"
	appErrors "github.com/noah-isme/engage-dash-api/pkg/errors"
	"github.com/noah-isme/engage-dash-api/pkg/response"
)

// EngagementHandler exposes engagement sample endpoints.
type EngagementHandler struct {
	service *service.EngagementService
}

// NewEngagementHandler creates a new engagement handler.
func NewEngagementHandler(svc *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: svc}
}

// Record godoc
// @Summary Record engagement activity
// @Description Add activity counters to a user's daily engagement sample
// @Tags Engagement
// @Accept json
// @Produce json
// @Param payload body dto.RecordEngagementRequest true "Engagement payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /engagement [post]
func (h *EngagementHandler) Record(c *gin.Context) {
	var req dto.RecordEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	sample, err := h.service.Record(c.Request.Context(), service.RecordEngagementRequest{
		UserID:             req.UserID,
		Date:               req.Date,
		LoginCount:         req.LoginCount,
		TimeSpentMinutes:   req.TimeSpentMinutes,
		InteractionCount:   req.InteractionCount,
		TasksCompleted:     req.TasksCompleted,
		ResponsesSubmitted: req.ResponsesSubmitted,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, sample)
}

// List godoc
// @Summary List engagement samples
// @Description List engagement samples with filtering and pagination
// @Tags Engagement
// @Produce json
// @Param user_id query string false "User filter"
// @Param date_from query string false "Start date (YYYY-MM-DD)"
// @Param date_to query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /engagement [get]
func (h *EngagementHandler) List(c *gin.Context) {
	var filter models.EngagementFilter

	filter.UserID = c.Query("user_id")
	filter.DateFrom = c.Query("date_from")
	filter.DateTo = c.Query("date_to")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil {
		filter.PageSize = size
	}

	samples, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, samples, pagination)
}
