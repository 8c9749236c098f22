package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

// GroupService implements group management for committee roles, instructors
// and students.
type GroupService struct {
	groups      ports.GroupRepository
	enrollments ports.EnrollmentRepository
	log         zerolog.Logger
	now         func() time.Time
}

func NewGroupService(groups ports.GroupRepository, enrollments ports.EnrollmentRepository, log zerolog.Logger) *GroupService {
	return &GroupService{
		groups:      groups,
		enrollments: enrollments,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Assign creates a new group for an instructor.
func (s *GroupService) Assign(ctx context.Context, input ports.AssignGroupInput) (*domain.Group, error) {
	maxStudents := input.MaxStudents
	if maxStudents <= 0 {
		maxStudents = domain.DefaultMaxStudents
	}
	ward := input.Ward
	if ward == "" {
		ward = domain.DefaultWard
	}

	now := s.now()
	group := &domain.Group{
		Name:            input.GroupName,
		Description:     input.GroupDescription,
		InstructorName:  input.InstructorName,
		InstructorEmail: input.InstructorEmail,
		Ward:            ward,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		MaxStudents:     maxStudents,
		Status:          domain.GroupActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.groups.Create(ctx, group)
	if err != nil {
		s.log.Error().Err(err).Str("group", input.GroupName).Msg("failed to create group")
		return nil, err
	}

	s.log.Info().Str("group_id", created.ID).Str("instructor", created.InstructorEmail).Msg("group assigned")
	return created, nil
}

// Update edits an existing group. Zero-valued input fields keep the stored value.
func (s *GroupService) Update(ctx context.Context, groupID string, input ports.UpdateGroupInput) (*domain.Group, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if input.GroupName != "" {
		group.Name = input.GroupName
	}
	if input.GroupDescription != "" {
		group.Description = input.GroupDescription
	}
	if input.InstructorName != "" {
		group.InstructorName = input.InstructorName
	}
	if input.InstructorEmail != "" {
		group.InstructorEmail = input.InstructorEmail
	}
	if !input.StartDate.IsZero() {
		group.StartDate = input.StartDate
	}
	if !input.EndDate.IsZero() {
		group.EndDate = input.EndDate
	}
	if input.MaxStudents > 0 {
		group.MaxStudents = input.MaxStudents
	}
	if input.Status != "" {
		group.Status = input.Status
	}
	group.UpdatedAt = s.now()

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}

	s.log.Info().Str("group_id", group.ID).Msg("group updated")
	return group, nil
}

// List returns every group with computed progress, for committee dashboards.
func (s *GroupService) List(ctx context.Context) ([]ports.GroupWithProgress, error) {
	groups, err := s.groups.List(ctx, ports.GroupFilter{})
	if err != nil {
		return nil, err
	}
	return s.withProgress(groups), nil
}

// Available returns active groups a student can still join.
func (s *GroupService) Available(ctx context.Context) ([]ports.GroupWithProgress, error) {
	groups, err := s.groups.List(ctx, ports.GroupFilter{Status: domain.GroupActive})
	if err != nil {
		return nil, err
	}

	now := s.now()
	open := groups[:0]
	for _, g := range groups {
		if g.Open(now) {
			open = append(open, g)
		}
	}
	return s.withProgress(open), nil
}

// Join enrolls a student into a group, enforcing capacity and uniqueness.
func (s *GroupService) Join(ctx context.Context, input ports.JoinGroupInput) (*domain.Enrollment, error) {
	group, err := s.groups.FindByID(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if group.Status != domain.GroupActive || !now.Before(group.EndDate) {
		return nil, domain.ErrGroupClosed
	}
	if group.MaxStudents > 0 && group.CurrentStudents >= group.MaxStudents {
		return nil, domain.ErrGroupFull
	}

	enrolled, err := s.enrollments.Exists(ctx, input.GroupID, input.StudentEmail)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, domain.ErrAlreadyEnrolled
	}

	enrollment := &domain.Enrollment{
		GroupID:      input.GroupID,
		StudentName:  input.StudentName,
		StudentEmail: input.StudentEmail,
		StudentPhone: input.StudentPhone,
		Notes:        input.Notes,
		JoinedAt:     now,
	}

	created, err := s.enrollments.Create(ctx, enrollment)
	if err != nil {
		return nil, err
	}

	if err := s.groups.IncrementStudents(ctx, input.GroupID, 1); err != nil {
		s.log.Warn().Err(err).Str("group_id", input.GroupID).Msg("failed to bump student counter")
	}

	s.log.Info().Str("group_id", input.GroupID).Str("student", input.StudentEmail).Msg("student joined group")
	return created, nil
}

// InstructorGroups lists the groups taught by one instructor.
func (s *GroupService) InstructorGroups(ctx context.Context, instructorEmail string) ([]ports.GroupWithProgress, error) {
	groups, err := s.groups.List(ctx, ports.GroupFilter{InstructorEmail: instructorEmail})
	if err != nil {
		return nil, err
	}
	return s.withProgress(groups), nil
}

// Participants lists a group's enrollments. Instructors only see their own
// groups; committee roles see any group.
func (s *GroupService) Participants(ctx context.Context, groupID, requesterRole, requesterEmail string) ([]*domain.Enrollment, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if requesterRole == domain.RoleInstructor && group.InstructorEmail != requesterEmail {
		return nil, domain.ErrForbidden
	}

	return s.enrollments.ListByGroup(ctx, groupID)
}

// StudentEnrollments lists the groups a student has joined.
func (s *GroupService) StudentEnrollments(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error) {
	return s.enrollments.ListByStudent(ctx, studentEmail)
}

func (s *GroupService) withProgress(groups []*domain.Group) []ports.GroupWithProgress {
	now := s.now()
	out := make([]ports.GroupWithProgress, 0, len(groups))
	for _, g := range groups {
		out = append(out, ports.GroupWithProgress{Group: g, Progress: g.Progress(now)})
	}
	return out
}
