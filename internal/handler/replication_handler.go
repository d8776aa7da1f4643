package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/timetable-api/internal/service"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
	"github.com/campushq/timetable-api/pkg/response"
)

// ReplicationHandler manages schedule copy endpoints.
type ReplicationHandler struct {
	service *service.ReplicationService
}

// NewReplicationHandler constructs handler.
func NewReplicationHandler(svc *service.ReplicationService) *ReplicationHandler {
	return &ReplicationHandler{service: svc}
}

// BulkCopy godoc
// @Summary Copy one section's day to other days
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.CopySectionDayRequest true "Copy payload"
// @Success 200 {object} response.Envelope
// @Router /scheduling/schedule/bulk-copy [post]
func (h *ReplicationHandler) BulkCopy(c *gin.Context) {
	var req service.CopySectionDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.CopySectionDay(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CopyDayToWeek godoc
// @Summary Copy a full day's grid to other days of the week
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.CopyDayRequest true "Copy payload"
// @Success 200 {object} response.Envelope
// @Router /scheduling/schedule/copy-day-to-week [post]
func (h *ReplicationHandler) CopyDayToWeek(c *gin.Context) {
	var req service.CopyDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.CopyDayToDays(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CopyWeekToSemester godoc
// @Summary Copy a week's grid to other weeks of the semester
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.CopyWeekRequest true "Copy payload"
// @Success 200 {object} response.Envelope
// @Router /scheduling/schedule/copy-week-to-semester [post]
func (h *ReplicationHandler) CopyWeekToSemester(c *gin.Context) {
	var req service.CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.CopyWeekToSemester(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
