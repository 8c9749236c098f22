package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Enrollment is a student's membership in a group as reported by the backend.
type Enrollment struct {
	ID           string `json:"id"`
	GroupID      string `json:"groupid"`
	StudentName  string `json:"studentname"`
	StudentEmail string `json:"studentemail"`
	StudentPhone string `json:"studentphone"`
	Notes        string `json:"notes"`
	JoinedAt     string `json:"joined_at"`
}

// AttendanceRecord is one student's presence flag for one week.
type AttendanceRecord struct {
	GroupID      string `json:"groupid"`
	StudentEmail string `json:"studentemail"`
	StudentName  string `json:"studentname"`
	WeekStart    string `json:"week"`
	Present      bool   `json:"present"`
}

// StudentAttendance summarizes one student's attendance across marked weeks.
type StudentAttendance struct {
	StudentEmail string  `json:"studentemail"`
	StudentName  string  `json:"studentname"`
	WeeksMarked  int     `json:"weeks_marked"`
	WeeksPresent int     `json:"weeks_present"`
	Rate         float64 `json:"rate"`
}

// WardReport aggregates one ward's self-reliance activity.
type WardReport struct {
	Ward            string  `json:"ward"`
	Groups          int     `json:"groups"`
	ActiveGroups    int     `json:"active_groups"`
	Enrolled        int     `json:"enrolled"`
	AttendanceRate  float64 `json:"attendance_rate"`
	AverageProgress float64 `json:"average_progress"`
}

// StakeReport is the stake-wide roll-up for leadership roles.
type StakeReport struct {
	Wards         []WardReport `json:"wards"`
	TotalGroups   int          `json:"total_groups"`
	TotalEnrolled int          `json:"total_enrolled"`
}

// AssignGroupInput creates a new group (committee roles).
type AssignGroupInput struct {
	InstructorName   string `json:"instructorname"`
	InstructorEmail  string `json:"instructoremail"`
	GroupName        string `json:"groupname"`
	GroupDescription string `json:"groupdescription"`
	Ward             string `json:"ward"`
	StartDate        string `json:"startdate"`
	EndDate          string `json:"enddate"`
	MaxStudents      int    `json:"maxstudents"`
}

// JoinGroupInput enrolls a student into a group.
type JoinGroupInput struct {
	GroupID      string `json:"groupid"`
	StudentName  string `json:"studentname"`
	StudentEmail string `json:"studentemail"`
	StudentPhone string `json:"studentphone,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// WeekMark is one student's presence flag within a week marking.
type WeekMark struct {
	StudentEmail string `json:"studentemail"`
	StudentName  string `json:"studentname"`
	Present      bool   `json:"present"`
}

// MarkAttendanceInput carries a week's attendance sheet for a group.
type MarkAttendanceInput struct {
	GroupID string     `json:"groupid"`
	Week    string     `json:"week"`
	Marks   []WeekMark `json:"marks"`
}

type groupListResponse struct {
	Success bool    `json:"success"`
	Data    []Group `json:"data"`
}

type groupResponse struct {
	Success bool   `json:"success"`
	Group   *Group `json:"group"`
}

// Groups lists all group assignments in the stake (leadership roles).
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var res groupListResponse
	if err := c.do(ctx, http.MethodGet, "/group/assignments", nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// AvailableGroups lists groups currently open for enrollment.
func (c *Client) AvailableGroups(ctx context.Context) ([]Group, error) {
	var res groupListResponse
	if err := c.do(ctx, http.MethodGet, "/group/available", nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// MyGroups lists the groups the authenticated instructor runs.
func (c *Client) MyGroups(ctx context.Context) ([]Group, error) {
	var res groupListResponse
	if err := c.do(ctx, http.MethodGet, "/group/my-groups", nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// AssignGroup creates a group and returns the stored record.
func (c *Client) AssignGroup(ctx context.Context, input AssignGroupInput) (*Group, error) {
	var res groupResponse
	if err := c.do(ctx, http.MethodPost, "/group/assign", input, &res); err != nil {
		return nil, err
	}
	if res.Group == nil {
		return nil, fmt.Errorf("assign group: empty group in response")
	}
	return res.Group, nil
}

// JoinGroup enrolls a student into an open group.
func (c *Client) JoinGroup(ctx context.Context, input JoinGroupInput) error {
	return c.do(ctx, http.MethodPost, "/group/join", input, nil)
}

// MyEnrollments lists the authenticated student's enrollments.
func (c *Client) MyEnrollments(ctx context.Context) ([]Enrollment, error) {
	var res struct {
		Success bool         `json:"success"`
		Data    []Enrollment `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/group/my-enrollment", nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Participants lists the students enrolled in one group.
func (c *Client) Participants(ctx context.Context, groupID string) ([]Enrollment, error) {
	var res struct {
		Success bool         `json:"success"`
		Data    []Enrollment `json:"data"`
	}
	path := "/group/my-group-details?groupid=" + url.QueryEscape(groupID)
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// MarkAttendance submits a week's attendance sheet (instructor only).
func (c *Client) MarkAttendance(ctx context.Context, input MarkAttendanceInput) error {
	return c.do(ctx, http.MethodPost, "/group/attendance", input, nil)
}

// WeekAttendance fetches the raw marks for a group and week.
func (c *Client) WeekAttendance(ctx context.Context, groupID, week string) ([]AttendanceRecord, error) {
	var res struct {
		Success bool               `json:"success"`
		Data    []AttendanceRecord `json:"data"`
	}
	path := "/group/attendance?groupid=" + url.QueryEscape(groupID) + "&week=" + url.QueryEscape(week)
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// GroupAttendanceSummary fetches per-student attendance rates for a group.
func (c *Client) GroupAttendanceSummary(ctx context.Context, groupID string) ([]StudentAttendance, error) {
	var res struct {
		Success bool                `json:"success"`
		Data    []StudentAttendance `json:"data"`
	}
	path := "/group/attendance?groupid=" + url.QueryEscape(groupID)
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// StakeReports fetches the stake-wide per-ward roll-up.
func (c *Client) StakeReports(ctx context.Context) (*StakeReport, error) {
	var res struct {
		Success bool         `json:"success"`
		Data    *StakeReport `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/group/stake_reports", nil, &res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, fmt.Errorf("stake reports: empty report in response")
	}
	return res.Data, nil
}
