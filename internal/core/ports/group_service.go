package ports

import (
	"context"
	"time"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
)

// AssignGroupInput carries the data to create a new group for an instructor.
type AssignGroupInput struct {
	GroupName        string
	GroupDescription string
	InstructorName   string
	InstructorEmail  string
	Ward             string
	StartDate        time.Time
	EndDate          time.Time
	MaxStudents      int
}

// UpdateGroupInput carries editable group fields. Zero values leave the
// stored value untouched.
type UpdateGroupInput struct {
	GroupName        string
	GroupDescription string
	InstructorName   string
	InstructorEmail  string
	StartDate        time.Time
	EndDate          time.Time
	MaxStudents      int
	Status           domain.GroupStatus
}

// JoinGroupInput carries a student's enrollment request.
type JoinGroupInput struct {
	GroupID      string
	StudentName  string
	StudentEmail string
	StudentPhone string
	Notes        string
}

// GroupWithProgress pairs a group with its computed date-range progress.
type GroupWithProgress struct {
	Group    *domain.Group
	Progress float64
}

// GroupService defines use-case operations for group management.
type GroupService interface {
	Assign(ctx context.Context, input AssignGroupInput) (*domain.Group, error)
	Update(ctx context.Context, groupID string, input UpdateGroupInput) (*domain.Group, error)
	List(ctx context.Context) ([]GroupWithProgress, error)
	// Available lists active groups a student can still join.
	Available(ctx context.Context) ([]GroupWithProgress, error)
	Join(ctx context.Context, input JoinGroupInput) (*domain.Enrollment, error)
	// InstructorGroups lists the groups taught by one instructor.
	InstructorGroups(ctx context.Context, instructorEmail string) ([]GroupWithProgress, error)
	// Participants lists a group's enrollments; only its instructor or a
	// committee role may see them.
	Participants(ctx context.Context, groupID, requesterRole, requesterEmail string) ([]*domain.Enrollment, error)
	// StudentEnrollments lists the groups a student has joined.
	StudentEnrollments(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error)
}
