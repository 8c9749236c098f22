package ports

import (
	"context"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
)

// GroupFilter narrows group listings.
type GroupFilter struct {
	InstructorEmail string             // non-empty = scoped to one instructor
	Status          domain.GroupStatus // optional
	Ward            string             // optional
}

// GroupRepository defines persistence operations for self-reliance groups.
type GroupRepository interface {
	Create(ctx context.Context, g *domain.Group) (*domain.Group, error)
	Update(ctx context.Context, g *domain.Group) error
	FindByID(ctx context.Context, id string) (*domain.Group, error)
	List(ctx context.Context, filter GroupFilter) ([]*domain.Group, error)
	// IncrementStudents atomically adjusts the enrollment counter.
	IncrementStudents(ctx context.Context, id string, delta int) error
}

// EnrollmentRepository defines persistence operations for group membership.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error)
	ListByGroup(ctx context.Context, groupID string) ([]*domain.Enrollment, error)
	ListByStudent(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error)
	Exists(ctx context.Context, groupID, studentEmail string) (bool, error)
}
