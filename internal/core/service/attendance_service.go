package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

// AttendanceService implements weekly attendance tracking for instructors.
type AttendanceService struct {
	groups     ports.GroupRepository
	attendance ports.AttendanceRepository
	log        zerolog.Logger
	now        func() time.Time
}

func NewAttendanceService(groups ports.GroupRepository, attendance ports.AttendanceRepository, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		groups:     groups,
		attendance: attendance,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// MarkWeek upserts a full week's attendance sheet for a group. Marking the
// same week twice replaces the earlier records. Only the group's instructor
// may mark.
func (s *AttendanceService) MarkWeek(ctx context.Context, input ports.MarkWeekInput) ([]*domain.AttendanceRecord, error) {
	group, err := s.groups.FindByID(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}
	if group.InstructorEmail != input.MarkedBy {
		return nil, domain.ErrForbidden
	}

	week := domain.WeekStartOf(input.Week)
	markedAt := s.now()

	records := make([]*domain.AttendanceRecord, 0, len(input.Marks))
	for _, m := range input.Marks {
		rec := &domain.AttendanceRecord{
			GroupID:      input.GroupID,
			StudentEmail: m.StudentEmail,
			StudentName:  m.StudentName,
			WeekStart:    week,
			Present:      m.Present,
			MarkedBy:     input.MarkedBy,
			MarkedAt:     markedAt,
		}
		saved, err := s.attendance.Upsert(ctx, rec)
		if err != nil {
			s.log.Error().Err(err).Str("group_id", input.GroupID).Str("student", m.StudentEmail).Msg("failed to upsert attendance")
			return nil, err
		}
		records = append(records, saved)
	}

	s.log.Info().Str("group_id", input.GroupID).Time("week", week).Int("marks", len(records)).Msg("attendance marked")
	return records, nil
}

// WeekAttendance lists a group's records for one week.
func (s *AttendanceService) WeekAttendance(ctx context.Context, groupID string, week time.Time) ([]*domain.AttendanceRecord, error) {
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.attendance.ListByGroupWeek(ctx, groupID, domain.WeekStartOf(week))
}

// StudentsWithAttendance summarizes per-student attendance rates for a group.
func (s *AttendanceService) StudentsWithAttendance(ctx context.Context, groupID string) ([]ports.StudentAttendance, error) {
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		return nil, err
	}

	records, err := s.attendance.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[string]*ports.StudentAttendance)
	order := make([]string, 0)
	for _, rec := range records {
		sa, ok := byStudent[rec.StudentEmail]
		if !ok {
			sa = &ports.StudentAttendance{StudentEmail: rec.StudentEmail, StudentName: rec.StudentName}
			byStudent[rec.StudentEmail] = sa
			order = append(order, rec.StudentEmail)
		}
		sa.WeeksMarked++
		if rec.Present {
			sa.WeeksPresent++
		}
	}

	out := make([]ports.StudentAttendance, 0, len(order))
	for _, email := range order {
		sa := byStudent[email]
		if sa.WeeksMarked > 0 {
			sa.Rate = float64(sa.WeeksPresent) / float64(sa.WeeksMarked) * 100
		}
		out = append(out, *sa)
	}
	return out, nil
}
