package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"facility-tickets/internal/dto"
	"facility-tickets/internal/services"
	apperrors "facility-tickets/pkg/errors"
	"facility-tickets/pkg/utils"
)

type StatsController struct {
	statsService services.StatsServiceInterface
	logger       *zap.Logger
}

func NewStatsController(statsService services.StatsServiceInterface, logger *zap.Logger) *StatsController {
	return &StatsController{statsService: statsService, logger: logger}
}

func (c *StatsController) GetDashboardStats(ctx echo.Context) error {
	stats, err := c.statsService.GetDashboardStats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, http.StatusOK)
}

func (c *StatsController) GetCategoryStats(ctx echo.Context) error {
	stats, err := c.statsService.GetCategoryStats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, http.StatusOK)
}

func (c *StatsController) GetMonthlyTrend(ctx echo.Context) error {
	trend, err := c.statsService.GetMonthlyTrend(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, trend, http.StatusOK)
}

func (c *StatsController) GetReportSummary(ctx echo.Context) error {
	var payload dto.DateRangeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	summary, err := c.statsService.GetReportSummary(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, summary, http.StatusOK)
}

// ExportReport streams the report window as an XLSX workbook, the ticket
// rows first and the summary figures below them.
func (c *StatsController) ExportReport(ctx echo.Context) error {
	payload := dto.DateRangeDTO{
		StartDate:    ctx.QueryParam("startDate"),
		EndDate:      ctx.QueryParam("endDate"),
		FacilityType: ctx.QueryParam("facilityType"),
		Status:       ctx.QueryParam("status"),
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	tickets, err := c.statsService.GetReportTickets(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	summary, err := c.statsService.GetReportSummary(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return c.respondWithXLSX(ctx, tickets, summary)
}

var reportHeaders = []string{
	"Ticket Number", "Facility Type", "Facility Name", "Location", "Status", "Priority",
	"Created By", "Technician", "Created At", "Deadline", "Completed At",
}

func ticketRow(t dto.TicketView) []interface{} {
	const dateFmt = "02.01.2006 15:04"
	var technician, deadline, completedAt string
	if t.Technician != nil {
		technician = t.Technician.User.FullName
	}
	if t.Deadline.Valid {
		deadline = t.Deadline.Time.Format(dateFmt)
	}
	if t.CompletedAt.Valid {
		completedAt = t.CompletedAt.Time.Format(dateFmt)
	}

	return []interface{}{
		t.TicketNumber, t.FacilityType, t.FacilityName, t.Location, t.Status, t.Priority,
		t.CreatedByUser.FullName, technician, t.CreatedAt.Format(dateFmt), deadline, completedAt,
	}
}

func (c *StatsController) respondWithXLSX(ctx echo.Context, tickets []dto.TicketView, summary *dto.ReportSummaryDTO) error {
	f := excelize.NewFile()
	sheet := "Tickets Report"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "K1", style)

	for i, t := range tickets {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := ticketRow(t)
		f.SetSheetRow(sheet, cell, &row)
	}

	summaryRows := [][]interface{}{
		{"Total Tickets", summary.TotalTickets},
		{"Avg Completion Time", summary.AvgCompletionTime},
		{"On Time Percentage", summary.OnTimePercentage},
		{"Technician Efficiency", summary.TechnicianEfficiency},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, len(tickets)+3+i)
		r := row
		f.SetSheetRow(sheet, cell, &r)
	}

	f.SetColWidth(sheet, "A", "A", 15)
	f.SetColWidth(sheet, "B", "D", 22)
	f.SetColWidth(sheet, "G", "H", 25)
	f.SetColWidth(sheet, "I", "K", 18)

	fileName := fmt.Sprintf("tickets_report_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
