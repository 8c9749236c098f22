package ports

import "context"

// WardReport aggregates one ward's self-reliance activity.
type WardReport struct {
	Ward            string  `json:"ward"`
	Groups          int     `json:"groups"`
	ActiveGroups    int     `json:"active_groups"`
	Enrolled        int     `json:"enrolled"`
	AttendanceRate  float64 `json:"attendance_rate"`
	AverageProgress float64 `json:"average_progress"`
}

// StakeReportResult is the stake-wide roll-up returned to committee roles.
type StakeReportResult struct {
	Wards         []WardReport `json:"wards"`
	TotalGroups   int          `json:"total_groups"`
	TotalEnrolled int          `json:"total_enrolled"`
}

// ReportService produces aggregated reports for stake leadership.
type ReportService interface {
	StakeReports(ctx context.Context) (*StakeReportResult, error)
}
