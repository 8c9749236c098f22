package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

// ReportHandler serves aggregated stake reports to leadership roles.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type stakeReportsResponse struct {
	Success bool                     `json:"success"`
	Data    *ports.StakeReportResult `json:"data"`
}

// StakeReports returns the per-ward roll-up.
//
// @Summary      Stake-wide self-reliance report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  stakeReportsResponse
// @Failure      403  {object}  errorResponse
// @Router       /group/stake_reports [get]
func (h *ReportHandler) StakeReports(c echo.Context) error {
	result, err := h.service.StakeReports(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stakeReportsResponse{Success: true, Data: result})
}
