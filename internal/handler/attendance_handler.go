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

// AttendanceHandler exposes attendance record endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Mark godoc
// @Summary Mark attendance
// @Description Record or overwrite attendance for a user and day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.MarkAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	record, err := h.service.Mark(c.Request.Context(), service.MarkAttendanceRequest{
		UserID:   req.UserID,
		Date:     req.Date,
		Time:     req.Time,
		Status:   req.Status,
		MarkedBy: claims.UserID,
		Notes:    req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, record)
}

// List godoc
// @Summary List attendance records
// @Description List attendance records with filtering and pagination
// @Tags Attendance
// @Produce json
// @Param user_id query string false "User filter"
// @Param status query string false "Status filter"
// @Param date_from query string false "Start date (YYYY-MM-DD)"
// @Param date_to query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	var filter models.AttendanceFilter

	filter.UserID = c.Query("user_id")
	if status := c.Query("status"); status != "" {
		s := models.AttendanceStatus(status)
		filter.Status = &s
	}
	filter.DateFrom = c.Query("date_from")
	filter.DateTo = c.Query("date_to")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil {
		filter.PageSize = size
	}

	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, pagination)
}

// Unmark godoc
// @Summary Remove attendance
// @Description Delete the attendance record for a user and day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.UnmarkAttendanceRequest true "Unmark payload"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /attendance [delete]
func (h *AttendanceHandler) Unmark(c *gin.Context) {
	var req dto.UnmarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.Unmark(c.Request.Context(), req.UserID, req.Date); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
