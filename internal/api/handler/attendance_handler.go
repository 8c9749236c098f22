package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kuss/selfreliance-portal/internal/api/metrics"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

// AttendanceHandler handles weekly attendance marking and queries.
type AttendanceHandler struct {
	service ports.AttendanceService
}

func NewAttendanceHandler(service ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Mark records a full week's attendance sheet for a group.
//
// @Summary      Mark attendance for a week
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      markAttendanceRequest  true  "Week attendance sheet"
// @Success      200   {object}  attendanceListResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /group/attendance [post]
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var req markAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	week, err := parseDate(req.Week)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "week must be a date (YYYY-MM-DD)"})
	}

	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	marks := make([]ports.WeekMarkInput, 0, len(req.Marks))
	for _, m := range req.Marks {
		marks = append(marks, ports.WeekMarkInput{
			StudentEmail: m.StudentEmail,
			StudentName:  m.StudentName,
			Present:      m.Present,
		})
	}

	records, err := h.service.MarkWeek(c.Request().Context(), ports.MarkWeekInput{
		GroupID:  req.GroupID,
		Week:     week,
		MarkedBy: identity.Email,
		Marks:    marks,
	})
	if err != nil {
		return err
	}

	metrics.AttendanceMarksTotal.Add(float64(len(records)))
	return c.JSON(http.StatusOK, attendanceListResponse{Success: true, Data: records})
}

// Week lists a group's attendance for one week; without a week parameter it
// returns the per-student summary instead.
//
// @Summary      Get attendance for a group
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        groupid  query     string  true   "Group ID"
// @Param        week     query     string  false  "Week date (YYYY-MM-DD); omit for the per-student summary"
// @Success      200      {object}  attendanceListResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /group/attendance [get]
func (h *AttendanceHandler) Week(c echo.Context) error {
	groupID := c.QueryParam("groupid")
	if groupID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "groupid is required"})
	}

	weekParam := c.QueryParam("week")
	if weekParam == "" {
		summary, err := h.service.StudentsWithAttendance(c.Request().Context(), groupID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, studentAttendanceResponse{Success: true, Data: summary})
	}

	week, err := parseDate(weekParam)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "week must be a date (YYYY-MM-DD)"})
	}

	records, err := h.service.WeekAttendance(c.Request().Context(), groupID, week)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attendanceListResponse{Success: true, Data: records})
}
