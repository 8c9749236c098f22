package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

type stubGroupRepo struct {
	createFn   func(ctx context.Context, g *domain.Group) (*domain.Group, error)
	updateFn   func(ctx context.Context, g *domain.Group) error
	findByIDFn func(ctx context.Context, id string) (*domain.Group, error)
	listFn     func(ctx context.Context, filter ports.GroupFilter) ([]*domain.Group, error)
	incFn      func(ctx context.Context, id string, delta int) error
}

func (r *stubGroupRepo) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	return r.createFn(ctx, g)
}

func (r *stubGroupRepo) Update(ctx context.Context, g *domain.Group) error {
	return r.updateFn(ctx, g)
}

func (r *stubGroupRepo) FindByID(ctx context.Context, id string) (*domain.Group, error) {
	return r.findByIDFn(ctx, id)
}

func (r *stubGroupRepo) List(ctx context.Context, filter ports.GroupFilter) ([]*domain.Group, error) {
	return r.listFn(ctx, filter)
}

func (r *stubGroupRepo) IncrementStudents(ctx context.Context, id string, delta int) error {
	if r.incFn == nil {
		return nil
	}
	return r.incFn(ctx, id, delta)
}

type stubEnrollmentRepo struct {
	createFn        func(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error)
	listByGroupFn   func(ctx context.Context, groupID string) ([]*domain.Enrollment, error)
	listByStudentFn func(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error)
	existsFn        func(ctx context.Context, groupID, studentEmail string) (bool, error)
}

func (r *stubEnrollmentRepo) Create(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	return r.createFn(ctx, e)
}

func (r *stubEnrollmentRepo) ListByGroup(ctx context.Context, groupID string) ([]*domain.Enrollment, error) {
	return r.listByGroupFn(ctx, groupID)
}

func (r *stubEnrollmentRepo) ListByStudent(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error) {
	return r.listByStudentFn(ctx, studentEmail)
}

func (r *stubEnrollmentRepo) Exists(ctx context.Context, groupID, studentEmail string) (bool, error) {
	if r.existsFn == nil {
		return false, nil
	}
	return r.existsFn(ctx, groupID, studentEmail)
}

func fixedNow() time.Time {
	return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
}

func openGroup() *domain.Group {
	return &domain.Group{
		ID:              "g1",
		Name:            "Starting a Business",
		InstructorEmail: "ana@example.org",
		StartDate:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		MaxStudents:     2,
		Status:          domain.GroupActive,
	}
}

func TestGroupServiceAssignDefaults(t *testing.T) {
	groups := &stubGroupRepo{
		createFn: func(_ context.Context, g *domain.Group) (*domain.Group, error) {
			g.ID = "g1"
			return g, nil
		},
	}

	svc := NewGroupService(groups, &stubEnrollmentRepo{}, zerolog.Nop())
	created, err := svc.Assign(context.Background(), ports.AssignGroupInput{
		GroupName:       "Starting a Business",
		InstructorEmail: "ana@example.org",
		StartDate:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if created.MaxStudents != domain.DefaultMaxStudents {
		t.Errorf("MaxStudents = %d, want default %d", created.MaxStudents, domain.DefaultMaxStudents)
	}
	if created.Ward != domain.DefaultWard {
		t.Errorf("Ward = %q, want default", created.Ward)
	}
	if created.Status != domain.GroupActive {
		t.Errorf("Status = %q, want active", created.Status)
	}
}

func TestGroupServiceUpdateKeepsZeroFields(t *testing.T) {
	stored := openGroup()
	groups := &stubGroupRepo{
		findByIDFn: func(context.Context, string) (*domain.Group, error) { return stored, nil },
		updateFn:   func(context.Context, *domain.Group) error { return nil },
	}

	svc := NewGroupService(groups, &stubEnrollmentRepo{}, zerolog.Nop())
	updated, err := svc.Update(context.Background(), "g1", ports.UpdateGroupInput{
		GroupDescription: "new description",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Description != "new description" {
		t.Errorf("Description = %q", updated.Description)
	}
	if updated.Name != "Starting a Business" || updated.InstructorEmail != "ana@example.org" {
		t.Errorf("zero-valued input overwrote stored fields: %+v", updated)
	}
}

func TestGroupServiceJoin(t *testing.T) {
	var bumped bool
	groups := &stubGroupRepo{
		findByIDFn: func(context.Context, string) (*domain.Group, error) { return openGroup(), nil },
		incFn: func(_ context.Context, id string, delta int) error {
			if id != "g1" || delta != 1 {
				t.Errorf("IncrementStudents(%q, %d)", id, delta)
			}
			bumped = true
			return nil
		},
	}
	enrollments := &stubEnrollmentRepo{
		createFn: func(_ context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
			e.ID = "e1"
			return e, nil
		},
	}

	svc := NewGroupService(groups, enrollments, zerolog.Nop())
	svc.now = fixedNow

	enrollment, err := svc.Join(context.Background(), ports.JoinGroupInput{
		GroupID:      "g1",
		StudentName:  "Ben Okafor",
		StudentEmail: "ben@example.org",
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if enrollment.ID != "e1" || enrollment.GroupID != "g1" {
		t.Errorf("enrollment = %+v", enrollment)
	}
	if !bumped {
		t.Error("student counter was not incremented")
	}
}

func TestGroupServiceJoinRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(g *domain.Group)
		exists  bool
		wantErr error
	}{
		{"completed group", func(g *domain.Group) { g.Status = domain.GroupCompleted }, false, domain.ErrGroupClosed},
		{"ended group", func(g *domain.Group) { g.EndDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }, false, domain.ErrGroupClosed},
		{"full group", func(g *domain.Group) { g.CurrentStudents = 2 }, false, domain.ErrGroupFull},
		{"already enrolled", func(*domain.Group) {}, true, domain.ErrAlreadyEnrolled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			group := openGroup()
			tc.mutate(group)

			groups := &stubGroupRepo{
				findByIDFn: func(context.Context, string) (*domain.Group, error) { return group, nil },
			}
			enrollments := &stubEnrollmentRepo{
				existsFn: func(context.Context, string, string) (bool, error) { return tc.exists, nil },
			}

			svc := NewGroupService(groups, enrollments, zerolog.Nop())
			svc.now = fixedNow

			_, err := svc.Join(context.Background(), ports.JoinGroupInput{GroupID: "g1", StudentEmail: "ben@example.org"})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Join err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestGroupServiceAvailableFiltersClosedGroups(t *testing.T) {
	open := openGroup()
	full := openGroup()
	full.ID = "g2"
	full.CurrentStudents = 2
	ended := openGroup()
	ended.ID = "g3"
	ended.EndDate = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	groups := &stubGroupRepo{
		listFn: func(_ context.Context, filter ports.GroupFilter) ([]*domain.Group, error) {
			if filter.Status != domain.GroupActive {
				t.Errorf("filter.Status = %q, want active", filter.Status)
			}
			return []*domain.Group{open, full, ended}, nil
		},
	}

	svc := NewGroupService(groups, &stubEnrollmentRepo{}, zerolog.Nop())
	svc.now = fixedNow

	available, err := svc.Available(context.Background())
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if len(available) != 1 || available[0].Group.ID != "g1" {
		t.Errorf("Available() = %d groups, want only the open one", len(available))
	}
	if available[0].Progress <= 0 {
		t.Error("progress not computed for available groups")
	}
}

func TestGroupServiceParticipantsAccess(t *testing.T) {
	groups := &stubGroupRepo{
		findByIDFn: func(context.Context, string) (*domain.Group, error) { return openGroup(), nil },
	}
	enrollments := &stubEnrollmentRepo{
		listByGroupFn: func(context.Context, string) ([]*domain.Enrollment, error) {
			return []*domain.Enrollment{{ID: "e1"}}, nil
		},
	}
	svc := NewGroupService(groups, enrollments, zerolog.Nop())

	// The owning instructor sees the roster.
	if _, err := svc.Participants(context.Background(), "g1", domain.RoleInstructor, "ana@example.org"); err != nil {
		t.Errorf("Participants as owner: %v", err)
	}

	// Another instructor does not.
	_, err := svc.Participants(context.Background(), "g1", domain.RoleInstructor, "other@example.org")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Participants as other instructor err = %v, want ErrForbidden", err)
	}

	// Committee roles see any group.
	if _, err := svc.Participants(context.Background(), "g1", domain.RoleStakeRep, "rep@example.org"); err != nil {
		t.Errorf("Participants as committee: %v", err)
	}
}
