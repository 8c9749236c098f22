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

type stubAttendanceRepo struct {
	upsertFn          func(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error)
	listByGroupWeekFn func(ctx context.Context, groupID string, weekStart time.Time) ([]*domain.AttendanceRecord, error)
	listByGroupFn     func(ctx context.Context, groupID string) ([]*domain.AttendanceRecord, error)
}

func (r *stubAttendanceRepo) Upsert(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	return r.upsertFn(ctx, rec)
}

func (r *stubAttendanceRepo) ListByGroupWeek(ctx context.Context, groupID string, weekStart time.Time) ([]*domain.AttendanceRecord, error) {
	return r.listByGroupWeekFn(ctx, groupID, weekStart)
}

func (r *stubAttendanceRepo) ListByGroup(ctx context.Context, groupID string) ([]*domain.AttendanceRecord, error) {
	return r.listByGroupFn(ctx, groupID)
}

func TestAttendanceServiceMarkWeek(t *testing.T) {
	var upserts []*domain.AttendanceRecord
	attendance := &stubAttendanceRepo{
		upsertFn: func(_ context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
			upserts = append(upserts, rec)
			return rec, nil
		},
	}
	groups := &stubGroupRepo{
		findByIDFn: func(context.Context, string) (*domain.Group, error) { return openGroup(), nil },
	}

	svc := NewAttendanceService(groups, attendance, zerolog.Nop())

	// A Wednesday; records must land on the Monday of that week.
	wednesday := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	records, err := svc.MarkWeek(context.Background(), ports.MarkWeekInput{
		GroupID:  "g1",
		Week:     wednesday,
		MarkedBy: "ana@example.org",
		Marks: []ports.WeekMarkInput{
			{StudentEmail: "ben@example.org", Present: true},
			{StudentEmail: "cleo@example.org", Present: false},
		},
	})
	if err != nil {
		t.Fatalf("MarkWeek: %v", err)
	}
	if len(records) != 2 || len(upserts) != 2 {
		t.Fatalf("got %d records, %d upserts, want 2 each", len(records), len(upserts))
	}
	for _, rec := range upserts {
		if !rec.WeekStart.Equal(monday) {
			t.Errorf("WeekStart = %v, want normalized to %v", rec.WeekStart, monday)
		}
		if rec.MarkedBy != "ana@example.org" {
			t.Errorf("MarkedBy = %q", rec.MarkedBy)
		}
	}
}

func TestAttendanceServiceMarkWeekForbidden(t *testing.T) {
	groups := &stubGroupRepo{
		findByIDFn: func(context.Context, string) (*domain.Group, error) { return openGroup(), nil },
	}
	svc := NewAttendanceService(groups, &stubAttendanceRepo{}, zerolog.Nop())

	_, err := svc.MarkWeek(context.Background(), ports.MarkWeekInput{
		GroupID:  "g1",
		Week:     time.Now(),
		MarkedBy: "other@example.org",
		Marks:    []ports.WeekMarkInput{{StudentEmail: "ben@example.org"}},
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("MarkWeek err = %v, want ErrForbidden", err)
	}
}

func TestAttendanceServiceMarkWeekUnknownGroup(t *testing.T) {
	groups := &stubGroupRepo{
		findByIDFn: func(context.Context, string) (*domain.Group, error) {
			return nil, domain.ErrGroupNotFound
		},
	}
	svc := NewAttendanceService(groups, &stubAttendanceRepo{}, zerolog.Nop())

	_, err := svc.MarkWeek(context.Background(), ports.MarkWeekInput{GroupID: "missing", MarkedBy: "ana@example.org"})
	if !errors.Is(err, domain.ErrGroupNotFound) {
		t.Errorf("MarkWeek err = %v, want ErrGroupNotFound", err)
	}
}

func TestAttendanceServiceStudentsWithAttendance(t *testing.T) {
	week1 := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	week2 := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	groups := &stubGroupRepo{
		findByIDFn: func(context.Context, string) (*domain.Group, error) { return openGroup(), nil },
	}
	attendance := &stubAttendanceRepo{
		listByGroupFn: func(context.Context, string) ([]*domain.AttendanceRecord, error) {
			return []*domain.AttendanceRecord{
				{StudentEmail: "ben@example.org", StudentName: "Ben Okafor", WeekStart: week1, Present: true},
				{StudentEmail: "cleo@example.org", StudentName: "Cleo Reyes", WeekStart: week1, Present: false},
				{StudentEmail: "ben@example.org", StudentName: "Ben Okafor", WeekStart: week2, Present: false},
				{StudentEmail: "cleo@example.org", StudentName: "Cleo Reyes", WeekStart: week2, Present: true},
			}, nil
		},
	}

	svc := NewAttendanceService(groups, attendance, zerolog.Nop())
	summary, err := svc.StudentsWithAttendance(context.Background(), "g1")
	if err != nil {
		t.Fatalf("StudentsWithAttendance: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("got %d students, want 2", len(summary))
	}

	// First-seen order is preserved.
	if summary[0].StudentEmail != "ben@example.org" || summary[1].StudentEmail != "cleo@example.org" {
		t.Errorf("order = [%s, %s]", summary[0].StudentEmail, summary[1].StudentEmail)
	}
	for _, sa := range summary {
		if sa.WeeksMarked != 2 || sa.WeeksPresent != 1 || sa.Rate != 50 {
			t.Errorf("summary for %s = %+v, want 1/2 marked at 50%%", sa.StudentEmail, sa)
		}
	}
}
