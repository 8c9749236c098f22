package domain

import (
	"errors"
	"time"
)

// GroupStatus represents the lifecycle state of a self-reliance group.
type GroupStatus string

const (
	GroupActive    GroupStatus = "active"
	GroupCompleted GroupStatus = "completed"
	GroupCancelled GroupStatus = "cancelled"
)

const DefaultMaxStudents = 15

var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupFull          = errors.New("group is full")
	ErrGroupClosed        = errors.New("group is not open for enrollment")
	ErrAlreadyEnrolled    = errors.New("student already enrolled")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// Group is a self-reliance class run by an instructor over a fixed date range.
type Group struct {
	ID              string      `json:"groupid" bson:"_id,omitempty"`
	Name            string      `json:"groupname" bson:"name"`
	Description     string      `json:"groupdescription" bson:"description"`
	InstructorID    string      `json:"instructorid" bson:"instructor_id"`
	InstructorName  string      `json:"instructorname" bson:"instructor_name"`
	InstructorEmail string      `json:"instructoremail" bson:"instructor_email"`
	Ward            string      `json:"ward" bson:"ward"`
	StartDate       time.Time   `json:"startdate" bson:"start_date"`
	EndDate         time.Time   `json:"enddate" bson:"end_date"`
	MaxStudents     int         `json:"maxstudents" bson:"max_students"`
	CurrentStudents int         `json:"currentstudents" bson:"current_students"`
	Status          GroupStatus `json:"status" bson:"status"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" bson:"updated_at"`
}

// Progress returns how far through its date range the group is, as a
// percentage clamped to [0, 100]. A group with a degenerate range (end not
// after start) reports 100 once the start date has passed.
func (g *Group) Progress(now time.Time) float64 {
	total := g.EndDate.Sub(g.StartDate)
	if total <= 0 {
		if now.Before(g.StartDate) {
			return 0
		}
		return 100
	}
	elapsed := now.Sub(g.StartDate)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= total {
		return 100
	}
	return float64(elapsed) / float64(total) * 100
}

// Open reports whether new students may join the group.
func (g *Group) Open(now time.Time) bool {
	if g.Status != GroupActive {
		return false
	}
	if g.MaxStudents > 0 && g.CurrentStudents >= g.MaxStudents {
		return false
	}
	return now.Before(g.EndDate)
}

// Enrollment records a student's membership in a group.
type Enrollment struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	GroupID      string    `json:"groupid" bson:"group_id"`
	StudentName  string    `json:"studentname" bson:"student_name"`
	StudentEmail string    `json:"studentemail" bson:"student_email"`
	StudentPhone string    `json:"studentphone,omitempty" bson:"student_phone,omitempty"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty"`
	JoinedAt     time.Time `json:"joined_at" bson:"joined_at"`
}
