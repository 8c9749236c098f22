package ports

import (
	"context"
	"time"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
)

// WeekMarkInput is one student's presence flag within a bulk week marking.
type WeekMarkInput struct {
	StudentEmail string
	StudentName  string
	Present      bool
}

// MarkWeekInput carries a full week's attendance sheet for a group.
type MarkWeekInput struct {
	GroupID  string
	Week     time.Time // any instant within the week; normalized to Monday
	MarkedBy string    // instructor email
	Marks    []WeekMarkInput
}

// StudentAttendance summarizes one student's attendance across all marked weeks.
type StudentAttendance struct {
	StudentEmail string  `json:"studentemail"`
	StudentName  string  `json:"studentname"`
	WeeksMarked  int     `json:"weeks_marked"`
	WeeksPresent int     `json:"weeks_present"`
	Rate         float64 `json:"rate"`
}

// AttendanceService defines use-case operations for attendance tracking.
type AttendanceService interface {
	// MarkWeek upserts attendance for a group and week. Only the group's
	// instructor may mark.
	MarkWeek(ctx context.Context, input MarkWeekInput) ([]*domain.AttendanceRecord, error)
	WeekAttendance(ctx context.Context, groupID string, week time.Time) ([]*domain.AttendanceRecord, error)
	StudentsWithAttendance(ctx context.Context, groupID string) ([]StudentAttendance, error)
}
