package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kuss/selfreliance-portal/internal/api/metrics"
	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

// GroupHandler handles group assignment, listing and enrollment.
type GroupHandler struct {
	service ports.GroupService
}

func NewGroupHandler(service ports.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// Assign creates a new group for an instructor.
//
// @Summary      Assign a new group to an instructor
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      assignGroupRequest  true  "Group details"
// @Success      201   {object}  groupResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /group/assign [post]
func (h *GroupHandler) Assign(c echo.Context) error {
	var req assignGroupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "startdate must be a date (YYYY-MM-DD)"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "enddate must be a date (YYYY-MM-DD)"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "enddate must be after startdate"})
	}

	group, err := h.service.Assign(c.Request().Context(), ports.AssignGroupInput{
		GroupName:        req.GroupName,
		GroupDescription: req.GroupDescription,
		InstructorName:   req.InstructorName,
		InstructorEmail:  req.InstructorEmail,
		Ward:             req.Ward,
		StartDate:        start,
		EndDate:          end,
		MaxStudents:      req.MaxStudents,
	})
	if err != nil {
		return err
	}

	metrics.GroupsCreatedTotal.WithLabelValues(group.Ward).Inc()
	return c.JSON(http.StatusCreated, groupResponse{
		Success: true,
		Message: "group assigned",
		Group:   toGroupPayload(group, group.Progress(group.CreatedAt)),
	})
}

// Update edits an existing group.
//
// @Summary      Update a group assignment
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Group ID"
// @Param        body  body      updateGroupRequest  true  "Fields to change"
// @Success      200   {object}  groupResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /group/assignment/{id} [put]
func (h *GroupHandler) Update(c echo.Context) error {
	var req updateGroupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	input := ports.UpdateGroupInput{
		GroupName:        req.GroupName,
		GroupDescription: req.GroupDescription,
		InstructorName:   req.InstructorName,
		InstructorEmail:  req.InstructorEmail,
		MaxStudents:      req.MaxStudents,
		Status:           domain.GroupStatus(req.Status),
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "startdate must be a date (YYYY-MM-DD)"})
		}
		input.StartDate = start
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "enddate must be a date (YYYY-MM-DD)"})
		}
		input.EndDate = end
	}

	group, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, groupResponse{
		Success: true,
		Message: "group updated",
		Group:   toGroupPayload(group, group.Progress(group.UpdatedAt)),
	})
}

// List returns every group with progress, for committee dashboards.
//
// @Summary      List all group assignments
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  groupListResponse
// @Router       /group/assignments [get]
func (h *GroupHandler) List(c echo.Context) error {
	groups, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groupListResponse{Success: true, Data: toGroupPayloads(groups)})
}

// Available returns the groups a student can still join.
//
// @Summary      List joinable groups
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  groupListResponse
// @Router       /group/available [get]
func (h *GroupHandler) Available(c echo.Context) error {
	groups, err := h.service.Available(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groupListResponse{Success: true, Data: toGroupPayloads(groups)})
}

// Join enrolls the calling student into a group.
//
// @Summary      Join a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      joinGroupRequest  true  "Enrollment details"
// @Success      201   {object}  joinGroupResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /group/join [post]
func (h *GroupHandler) Join(c echo.Context) error {
	var req joinGroupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	// Students may only enroll themselves.
	if identity.Role == domain.RoleStudent && req.StudentEmail != identity.Email {
		return c.JSON(http.StatusForbidden, errorResponse{Error: "cannot enroll another student"})
	}

	_, err = h.service.Join(c.Request().Context(), ports.JoinGroupInput{
		GroupID:      req.GroupID,
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		StudentPhone: req.StudentPhone,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.EnrollmentsTotal.Inc()
	return c.JSON(http.StatusCreated, joinGroupResponse{Success: true, Message: "enrolled"})
}

// MyGroups lists the calling instructor's groups.
//
// @Summary      List the caller's groups (instructor)
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  groupListResponse
// @Router       /group/my-groups [get]
func (h *GroupHandler) MyGroups(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	groups, err := h.service.InstructorGroups(c.Request().Context(), identity.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groupListResponse{Success: true, Data: toGroupPayloads(groups)})
}

// Participants lists a group's enrollments.
//
// @Summary      List a group's participants
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        groupid  query     string  true  "Group ID"
// @Success      200      {object}  enrollmentListResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /group/my-group-details [get]
func (h *GroupHandler) Participants(c echo.Context) error {
	groupID := c.QueryParam("groupid")
	if groupID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "groupid is required"})
	}

	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	enrollments, err := h.service.Participants(c.Request().Context(), groupID, identity.Role, identity.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, enrollmentListResponse{Success: true, Data: enrollments})
}

// MyEnrollments lists the calling student's enrollments.
//
// @Summary      List the caller's enrollments (student)
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  enrollmentListResponse
// @Router       /group/my-enrollment [get]
func (h *GroupHandler) MyEnrollments(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	enrollments, err := h.service.StudentEnrollments(c.Request().Context(), identity.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, enrollmentListResponse{Success: true, Data: enrollments})
}
