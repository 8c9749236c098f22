package ports

import (
	"context"
	"time"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
)

// AttendanceRepository defines persistence operations for attendance records.
type AttendanceRepository interface {
	// Upsert replaces the record keyed by (group, student, week).
	Upsert(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error)
	ListByGroupWeek(ctx context.Context, groupID string, weekStart time.Time) ([]*domain.AttendanceRecord, error)
	ListByGroup(ctx context.Context, groupID string) ([]*domain.AttendanceRecord, error)
}
