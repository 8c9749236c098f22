package domain

import (
	"errors"
	"time"
)

var ErrAttendanceNotFound = errors.New("attendance record not found")

// AttendanceRecord marks one student present or absent for one class week.
// WeekStart is always normalized to the Monday of the week, at midnight UTC.
type AttendanceRecord struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	GroupID      string    `json:"groupid" bson:"group_id"`
	StudentEmail string    `json:"studentemail" bson:"student_email"`
	StudentName  string    `json:"studentname" bson:"student_name"`
	WeekStart    time.Time `json:"week" bson:"week_start"`
	Present      bool      `json:"present" bson:"present"`
	MarkedBy     string    `json:"marked_by" bson:"marked_by"`
	MarkedAt     time.Time `json:"marked_at" bson:"marked_at"`
}

// WeekStartOf normalizes an arbitrary instant to the Monday of its week at
// midnight UTC, so records marked on different days of the same week collide.
func WeekStartOf(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}
