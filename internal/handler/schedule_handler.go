package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushq/timetable-api/internal/models"
	"github.com/campushq/timetable-api/internal/service"
	appErrors "github.com/campushq/timetable-api/pkg/errors"
	"github.com/campushq/timetable-api/pkg/response"
)

// ScheduleHandler manages schedule grid endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// ByDay godoc
// @Summary Daily schedule grid
// @Tags Schedule
// @Produce json
// @Param day path int true "Day of week (0=Sunday)"
// @Param weekStart query string false "Week start date (Monday, YYYY-MM-DD)"
// @Param semester query string false "Semester name"
// @Success 200 {object} response.Envelope
// @Router /scheduling/schedule/day/{day} [get]
func (h *ScheduleHandler) ByDay(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day must be a number between 0 and 6"))
		return
	}
	week, werr := service.ParseWeekFilter(c.Query("weekStart"))
	if werr != nil {
		response.Error(c, werr)
		return
	}

	rows, serr := h.service.ByDay(c.Request.Context(), day, week, c.Query("semester"))
	if serr != nil {
		response.Error(c, serr)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// BySection godoc
// @Summary Section schedule
// @Tags Schedule
// @Produce json
// @Param id path string true "Class section ID"
// @Param weekStart query string false "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /scheduling/schedule/section/{id} [get]
func (h *ScheduleHandler) BySection(c *gin.Context) {
	week, err := service.ParseWeekFilter(c.Query("weekStart"))
	if err != nil {
		response.Error(c, err)
		return
	}

	rows, serr := h.service.BySection(c.Request.Context(), c.Param("id"), week)
	if serr != nil {
		response.Error(c, serr)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// MySchedule godoc
// @Summary Caller's personal schedule
// @Tags Schedule
// @Produce json
// @Param weekStart query string false "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /my/schedule [get]
func (h *ScheduleHandler) MySchedule(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	week, err := service.ParseWeekFilter(c.Query("weekStart"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var rows []models.ScheduleRow
	var serr error
	switch claims.Role {
	case models.RoleStudent:
		rows, serr = h.service.StudentSchedule(c.Request.Context(), claims.UserID, week)
	case models.RoleTeacher:
		rows, serr = h.service.TeacherSchedule(c.Request.Context(), claims.UserID, week)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "personal schedules exist for students and teachers only"))
		return
	}
	if serr != nil {
		response.Error(c, serr)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Availability godoc
// @Summary Teacher availability for a slot
// @Tags Schedule
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param slotId path string true "Time slot ID"
// @Param day path int true "Day of week"
// @Success 200 {object} response.Envelope
// @Router /scheduling/availability/teacher/{teacherId}/slot/{slotId}/day/{day} [get]
func (h *ScheduleHandler) Availability(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day must be a number between 0 and 6"))
		return
	}

	availability, serr := h.service.TeacherAvailability(c.Request.Context(), c.Param("teacherId"), c.Param("slotId"), day)
	if serr != nil {
		response.Error(c, serr)
		return
	}
	response.JSON(c, http.StatusOK, availability, nil)
}

// Assign godoc
// @Summary Assign a schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.AssignScheduleRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /scheduling/schedule [post]
func (h *ScheduleHandler) Assign(c *gin.Context) {
	var req service.AssignScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	entry, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// AssignBatch godoc
// @Summary Assign several schedule entries in one operation
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.AssignManyRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Router /scheduling/schedule/batch [post]
func (h *ScheduleHandler) AssignBatch(c *gin.Context) {
	var req service.AssignManyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.AssignMany(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Deactivate godoc
// @Summary Deactivate a schedule entry
// @Tags Schedule
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Success 200 {object} response.Envelope
// @Router /scheduling/schedule/{id} [delete]
func (h *ScheduleHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "schedule entry deactivated"}, nil)
}
