package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

// ReportService aggregates group, enrollment and attendance data per ward for
// stake leadership.
type ReportService struct {
	groups     ports.GroupRepository
	attendance ports.AttendanceRepository
	log        zerolog.Logger
	now        func() time.Time
}

func NewReportService(groups ports.GroupRepository, attendance ports.AttendanceRepository, log zerolog.Logger) *ReportService {
	return &ReportService{
		groups:     groups,
		attendance: attendance,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// StakeReports rolls all groups up by ward. Attendance rate is the share of
// present marks across every record of the ward's groups; progress is the
// unweighted average of each group's date-range progress.
func (s *ReportService) StakeReports(ctx context.Context) (*ports.StakeReportResult, error) {
	groups, err := s.groups.List(ctx, ports.GroupFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()

	type wardAccum struct {
		report       ports.WardReport
		progressSum  float64
		marksTotal   int
		marksPresent int
	}
	byWard := make(map[string]*wardAccum)

	result := &ports.StakeReportResult{}
	for _, g := range groups {
		acc, ok := byWard[g.Ward]
		if !ok {
			acc = &wardAccum{report: ports.WardReport{Ward: g.Ward}}
			byWard[g.Ward] = acc
		}

		acc.report.Groups++
		if g.Status == domain.GroupActive {
			acc.report.ActiveGroups++
		}
		acc.report.Enrolled += g.CurrentStudents
		acc.progressSum += g.Progress(now)

		records, err := s.attendance.ListByGroup(ctx, g.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("group_id", g.ID).Msg("skipping attendance for report")
			continue
		}
		for _, rec := range records {
			acc.marksTotal++
			if rec.Present {
				acc.marksPresent++
			}
		}
	}

	wards := make([]ports.WardReport, 0, len(byWard))
	for _, acc := range byWard {
		if acc.report.Groups > 0 {
			acc.report.AverageProgress = acc.progressSum / float64(acc.report.Groups)
		}
		if acc.marksTotal > 0 {
			acc.report.AttendanceRate = float64(acc.marksPresent) / float64(acc.marksTotal) * 100
		}
		wards = append(wards, acc.report)
		result.TotalGroups += acc.report.Groups
		result.TotalEnrolled += acc.report.Enrolled
	}

	sort.Slice(wards, func(i, j int) bool { return wards[i].Ward < wards[j].Ward })
	result.Wards = wards
	return result, nil
}
