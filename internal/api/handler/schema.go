package handler

import (
	"time"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type signupRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password" validate:"required,min=8"`
}

type signupResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	User        *domain.User `json:"user,omitempty"`
	AccessToken string       `json:"access_token,omitempty"`
	ExpiresIn   string       `json:"expires_in,omitempty"`
}

type verifyResponse struct {
	User *domain.User `json:"user"`
}

// --- Groups ---

type assignGroupRequest struct {
	InstructorName   string `json:"instructorname" validate:"required"`
	InstructorEmail  string `json:"instructoremail" validate:"required,email"`
	GroupName        string `json:"groupname" validate:"required"`
	GroupDescription string `json:"groupdescription"`
	Ward             string `json:"ward"`
	StartDate        string `json:"startdate" validate:"required"`
	EndDate          string `json:"enddate" validate:"required"`
	MaxStudents      int    `json:"maxstudents"`
}

type updateGroupRequest struct {
	InstructorName   string `json:"instructorname"`
	InstructorEmail  string `json:"instructoremail"`
	GroupName        string `json:"groupname"`
	GroupDescription string `json:"groupdescription"`
	StartDate        string `json:"startdate"`
	EndDate          string `json:"enddate"`
	MaxStudents      int    `json:"maxstudents"`
	Status           string `json:"status"`
}

type joinGroupRequest struct {
	GroupID      string `json:"groupid" validate:"required"`
	StudentName  string `json:"studentname" validate:"required"`
	StudentEmail string `json:"studentemail" validate:"required,email"`
	StudentPhone string `json:"studentphone"`
	Notes        string `json:"notes"`
}

// groupPayload is the canonical wire shape for a group, including its
// computed date-range progress.
type groupPayload struct {
	GroupID          string  `json:"groupid"`
	GroupName        string  `json:"groupname"`
	GroupDescription string  `json:"groupdescription"`
	InstructorID     string  `json:"instructorid,omitempty"`
	InstructorName   string  `json:"instructorname"`
	InstructorEmail  string  `json:"instructoremail"`
	Ward             string  `json:"ward"`
	StartDate        string  `json:"startdate"`
	EndDate          string  `json:"enddate"`
	MaxStudents      int     `json:"maxstudents"`
	CurrentStudents  int     `json:"currentstudents"`
	Status           string  `json:"status"`
	Progress         float64 `json:"progress"`
}

type groupResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Group   *groupPayload `json:"group,omitempty"`
}

type groupListResponse struct {
	Success bool           `json:"success"`
	Data    []groupPayload `json:"data"`
}

type enrollmentListResponse struct {
	Success bool                 `json:"success"`
	Data    []*domain.Enrollment `json:"data"`
}

type joinGroupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Attendance ---

type weekMarkRequest struct {
	StudentEmail string `json:"studentemail" validate:"required,email"`
	StudentName  string `json:"studentname"`
	Present      bool   `json:"present"`
}

type markAttendanceRequest struct {
	GroupID string            `json:"groupid" validate:"required"`
	Week    string            `json:"week" validate:"required"`
	Marks   []weekMarkRequest `json:"marks" validate:"required,min=1,dive"`
}

type attendanceListResponse struct {
	Success bool                       `json:"success"`
	Data    []*domain.AttendanceRecord `json:"data"`
}

type studentAttendanceResponse struct {
	Success bool                      `json:"success"`
	Data    []ports.StudentAttendance `json:"data"`
}

const dateLayout = "2006-01-02"

// parseDate accepts both bare dates and RFC 3339 timestamps, the two formats
// the web forms historically submitted.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func toGroupPayload(g *domain.Group, progress float64) *groupPayload {
	return &groupPayload{
		GroupID:          g.ID,
		GroupName:        g.Name,
		GroupDescription: g.Description,
		InstructorID:     g.InstructorID,
		InstructorName:   g.InstructorName,
		InstructorEmail:  g.InstructorEmail,
		Ward:             g.Ward,
		StartDate:        g.StartDate.UTC().Format(dateLayout),
		EndDate:          g.EndDate.UTC().Format(dateLayout),
		MaxStudents:      g.MaxStudents,
		CurrentStudents:  g.CurrentStudents,
		Status:           string(g.Status),
		Progress:         progress,
	}
}

func toGroupPayloads(groups []ports.GroupWithProgress) []groupPayload {
	out := make([]groupPayload, 0, len(groups))
	for _, gp := range groups {
		out = append(out, *toGroupPayload(gp.Group, gp.Progress))
	}
	return out
}
