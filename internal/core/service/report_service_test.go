package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

func TestReportServiceStakeReports(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	groups := &stubGroupRepo{
		listFn: func(context.Context, ports.GroupFilter) ([]*domain.Group, error) {
			return []*domain.Group{
				{ID: "g1", Ward: "riverside", Status: domain.GroupActive, CurrentStudents: 5, StartDate: start, EndDate: end},
				{ID: "g2", Ward: "riverside", Status: domain.GroupCompleted, CurrentStudents: 3, StartDate: start, EndDate: end},
				{ID: "g3", Ward: "hillcrest", Status: domain.GroupActive, CurrentStudents: 4, StartDate: start, EndDate: end},
			}, nil
		},
	}
	attendance := &stubAttendanceRepo{
		listByGroupFn: func(_ context.Context, groupID string) ([]*domain.AttendanceRecord, error) {
			if groupID == "g3" {
				return []*domain.AttendanceRecord{{Present: true}, {Present: true}, {Present: false}, {Present: false}}, nil
			}
			return []*domain.AttendanceRecord{{Present: true}}, nil
		},
	}

	svc := NewReportService(groups, attendance, zerolog.Nop())
	svc.now = func() time.Time { return end } // every group fully elapsed

	result, err := svc.StakeReports(context.Background())
	if err != nil {
		t.Fatalf("StakeReports: %v", err)
	}

	if result.TotalGroups != 3 || result.TotalEnrolled != 12 {
		t.Errorf("totals = %d groups / %d enrolled, want 3 / 12", result.TotalGroups, result.TotalEnrolled)
	}
	if len(result.Wards) != 2 {
		t.Fatalf("got %d wards, want 2", len(result.Wards))
	}

	// Sorted by ward name: hillcrest first.
	hillcrest, riverside := result.Wards[0], result.Wards[1]
	if hillcrest.Ward != "hillcrest" || riverside.Ward != "riverside" {
		t.Fatalf("ward order = [%s, %s]", hillcrest.Ward, riverside.Ward)
	}

	if riverside.Groups != 2 || riverside.ActiveGroups != 1 || riverside.Enrolled != 8 {
		t.Errorf("riverside = %+v", riverside)
	}
	if riverside.AttendanceRate != 100 {
		t.Errorf("riverside.AttendanceRate = %v, want 100", riverside.AttendanceRate)
	}
	if riverside.AverageProgress != 100 {
		t.Errorf("riverside.AverageProgress = %v, want 100", riverside.AverageProgress)
	}

	if hillcrest.AttendanceRate != 50 {
		t.Errorf("hillcrest.AttendanceRate = %v, want 50", hillcrest.AttendanceRate)
	}
}

func TestReportServiceEmptyStake(t *testing.T) {
	groups := &stubGroupRepo{
		listFn: func(context.Context, ports.GroupFilter) ([]*domain.Group, error) { return nil, nil },
	}

	svc := NewReportService(groups, &stubAttendanceRepo{}, zerolog.Nop())
	result, err := svc.StakeReports(context.Background())
	if err != nil {
		t.Fatalf("StakeReports: %v", err)
	}
	if len(result.Wards) != 0 || result.TotalGroups != 0 {
		t.Errorf("result = %+v, want empty roll-up", result)
	}
}
