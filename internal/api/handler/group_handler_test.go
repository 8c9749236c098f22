package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

type stubGroupService struct {
	assignFn             func(ctx context.Context, input ports.AssignGroupInput) (*domain.Group, error)
	updateFn             func(ctx context.Context, groupID string, input ports.UpdateGroupInput) (*domain.Group, error)
	listFn               func(ctx context.Context) ([]ports.GroupWithProgress, error)
	availableFn          func(ctx context.Context) ([]ports.GroupWithProgress, error)
	joinFn               func(ctx context.Context, input ports.JoinGroupInput) (*domain.Enrollment, error)
	instructorGroupsFn   func(ctx context.Context, instructorEmail string) ([]ports.GroupWithProgress, error)
	participantsFn       func(ctx context.Context, groupID, requesterRole, requesterEmail string) ([]*domain.Enrollment, error)
	studentEnrollmentsFn func(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error)
}

func (s *stubGroupService) Assign(ctx context.Context, input ports.AssignGroupInput) (*domain.Group, error) {
	return s.assignFn(ctx, input)
}

func (s *stubGroupService) Update(ctx context.Context, groupID string, input ports.UpdateGroupInput) (*domain.Group, error) {
	return s.updateFn(ctx, groupID, input)
}

func (s *stubGroupService) List(ctx context.Context) ([]ports.GroupWithProgress, error) {
	return s.listFn(ctx)
}

func (s *stubGroupService) Available(ctx context.Context) ([]ports.GroupWithProgress, error) {
	return s.availableFn(ctx)
}

func (s *stubGroupService) Join(ctx context.Context, input ports.JoinGroupInput) (*domain.Enrollment, error) {
	return s.joinFn(ctx, input)
}

func (s *stubGroupService) InstructorGroups(ctx context.Context, instructorEmail string) ([]ports.GroupWithProgress, error) {
	return s.instructorGroupsFn(ctx, instructorEmail)
}

func (s *stubGroupService) Participants(ctx context.Context, groupID, requesterRole, requesterEmail string) ([]*domain.Enrollment, error) {
	return s.participantsFn(ctx, groupID, requesterRole, requesterEmail)
}

func (s *stubGroupService) StudentEnrollments(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error) {
	return s.studentEnrollmentsFn(ctx, studentEmail)
}

func TestGroupHandlerAssign(t *testing.T) {
	var gotInput ports.AssignGroupInput
	svc := &stubGroupService{
		assignFn: func(_ context.Context, input ports.AssignGroupInput) (*domain.Group, error) {
			gotInput = input
			return &domain.Group{
				ID:              "g1",
				Name:            input.GroupName,
				InstructorEmail: input.InstructorEmail,
				Ward:            input.Ward,
				StartDate:       input.StartDate,
				EndDate:         input.EndDate,
				MaxStudents:     15,
				Status:          domain.GroupActive,
				CreatedAt:       time.Now().UTC(),
			}, nil
		},
	}
	h := NewGroupHandler(svc)

	c, rec := authedContext(t, http.MethodPost, "/group/assign", `{
		"instructorname": "Ana Silva",
		"instructoremail": "ana@example.org",
		"groupname": "Starting a Business",
		"ward": "riverside",
		"startdate": "2026-09-01",
		"enddate": "2026-12-01"
	}`)
	if err := h.Assign(c); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if gotInput.StartDate.Format("2006-01-02") != "2026-09-01" {
		t.Errorf("StartDate = %v", gotInput.StartDate)
	}

	var res struct {
		Group *struct {
			GroupID string `json:"groupid"`
			Status  string `json:"status"`
		} `json:"group"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Group == nil || res.Group.GroupID != "g1" || res.Group.Status != "active" {
		t.Errorf("group payload = %+v", res.Group)
	}
}

func TestGroupHandlerAssignRejectsInvertedDates(t *testing.T) {
	h := NewGroupHandler(&stubGroupService{})

	c, rec := authedContext(t, http.MethodPost, "/group/assign", `{
		"instructorname": "Ana Silva",
		"instructoremail": "ana@example.org",
		"groupname": "Starting a Business",
		"startdate": "2026-12-01",
		"enddate": "2026-09-01"
	}`)
	if err := h.Assign(c); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when enddate precedes startdate", rec.Code)
	}
}

func TestGroupHandlerJoinSelfOnly(t *testing.T) {
	h := NewGroupHandler(&stubGroupService{})

	// The authed context is a student named ana@example.org.
	c, rec := authedContext(t, http.MethodPost, "/group/join", `{
		"groupid": "g1",
		"studentname": "Ben Okafor",
		"studentemail": "ben@example.org"
	}`)
	if err := h.Join(c); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 when a student enrolls someone else", rec.Code)
	}
}

func TestGroupHandlerJoin(t *testing.T) {
	svc := &stubGroupService{
		joinFn: func(_ context.Context, input ports.JoinGroupInput) (*domain.Enrollment, error) {
			return &domain.Enrollment{ID: "e1", GroupID: input.GroupID, StudentEmail: input.StudentEmail}, nil
		},
	}
	h := NewGroupHandler(svc)

	c, rec := authedContext(t, http.MethodPost, "/group/join", `{
		"groupid": "g1",
		"studentname": "Ana Silva",
		"studentemail": "ana@example.org"
	}`)
	if err := h.Join(c); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestGroupHandlerMyGroupsUsesCallerEmail(t *testing.T) {
	var gotEmail string
	svc := &stubGroupService{
		instructorGroupsFn: func(_ context.Context, email string) ([]ports.GroupWithProgress, error) {
			gotEmail = email
			return nil, nil
		},
	}
	h := NewGroupHandler(svc)

	c, rec := authedContext(t, http.MethodGet, "/group/my-groups", "")
	if err := h.MyGroups(c); err != nil {
		t.Fatalf("MyGroups: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotEmail != "ana@example.org" {
		t.Errorf("service called with %q, want the caller's email", gotEmail)
	}
}

func TestGroupHandlerParticipantsRequiresGroupID(t *testing.T) {
	h := NewGroupHandler(&stubGroupService{})

	c, rec := authedContext(t, http.MethodGet, "/group/my-group-details", "")
	if err := h.Participants(c); err != nil {
		t.Fatalf("Participants: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without groupid", rec.Code)
	}
}
