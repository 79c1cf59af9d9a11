package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"facility-tickets/internal/dto"
	"facility-tickets/internal/entities"
	"facility-tickets/internal/repositories"
	"facility-tickets/pkg/constants"
	apperrors "facility-tickets/pkg/errors"
)

const (
	cacheKeyDashboard  = "stats:dashboard"
	cacheKeyCategories = "stats:categories"
	cacheKeyTrend      = "stats:trend"

	trendMonths = 6

	reportDateLayout = "2006-01-02"
)

// statsCacheKeys is everything the ticket mutations invalidate.
var statsCacheKeys = []string{cacheKeyDashboard, cacheKeyCategories, cacheKeyTrend}

type StatsServiceInterface interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
	GetCategoryStats(ctx context.Context) (*dto.CategoryStatsDTO, error)
	GetMonthlyTrend(ctx context.Context) ([]dto.MonthlyTrendDTO, error)
	GetReportSummary(ctx context.Context, payload dto.DateRangeDTO) (*dto.ReportSummaryDTO, error)
	GetReportTickets(ctx context.Context, payload dto.DateRangeDTO) ([]dto.TicketView, error)
}

type StatsService struct {
	ticketRepo repositories.TicketRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	cacheTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewStatsService(
	ticketRepo repositories.TicketRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) StatsServiceInterface {
	return &StatsService{
		ticketRepo: ticketRepo,
		cacheRepo:  cacheRepo,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// withCache wraps an aggregation with a read-through cache. Cache errors
// are logged and treated as misses, the aggregation always runs.
func withCache[T any](ctx context.Context, s *StatsService, key string, compute func() (T, error)) (T, error) {
	var zero T
	if s.cacheRepo != nil {
		if raw, err := s.cacheRepo.Get(ctx, key); err == nil {
			var cached T
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	result, err := compute()
	if err != nil {
		return zero, err
	}

	if s.cacheRepo != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := s.cacheRepo.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache stats", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return result, nil
}

func (s *StatsService) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	return withCache(ctx, s, cacheKeyDashboard, func() (*dto.DashboardStatsDTO, error) {
		tickets, err := s.ticketRepo.AllTickets(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("Failed to get dashboard stats", err)
		}

		now := s.now()
		oneMonthAgo := now.AddDate(0, -1, 0)

		stats := &dto.DashboardStatsDTO{}
		var prevTotal, prevWaiting, prevInProgress, prevCompleted int
		for _, t := range tickets {
			stats.TotalTickets++
			switch t.Status {
			case constants.StatusWaiting:
				stats.PendingTickets++
			case constants.StatusInProgress:
				stats.InProgressTickets++
			case constants.StatusCompleted:
				stats.CompletedTickets++
			}
			// Snapshot of the corpus as it stood a month ago, by creation
			// date only. Status changes since then are not rewound.
			if !t.CreatedAt.After(oneMonthAgo) {
				prevTotal++
				switch t.Status {
				case constants.StatusWaiting:
					prevWaiting++
				case constants.StatusInProgress:
					prevInProgress++
				case constants.StatusCompleted:
					prevCompleted++
				}
			}
		}

		stats.TotalChange = percentChange(prevTotal, stats.TotalTickets)
		stats.PendingChange = percentChange(prevWaiting, stats.PendingTickets)
		stats.InProgressChange = percentChange(prevInProgress, stats.InProgressTickets)
		stats.CompletedChange = percentChange(prevCompleted, stats.CompletedTickets)
		return stats, nil
	})
}

// percentChange is the month-over-month delta rounded to a whole percent.
// A zero baseline reports 100 when anything exists now, 0 otherwise.
func percentChange(previous, current int) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

func (s *StatsService) GetCategoryStats(ctx context.Context) (*dto.CategoryStatsDTO, error) {
	return withCache(ctx, s, cacheKeyCategories, func() (*dto.CategoryStatsDTO, error) {
		tickets, err := s.ticketRepo.AllTickets(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("Failed to get category stats", err)
		}

		stats := &dto.CategoryStatsDTO{}
		for _, t := range tickets {
			switch t.FacilityType {
			case constants.FacilityElectrical:
				stats.Electrical++
			case constants.FacilityPlumbing:
				stats.Plumbing++
			case constants.FacilityAC:
				stats.AC++
			case constants.FacilityFurniture:
				stats.Furniture++
			case constants.FacilityIT:
				stats.IT++
			case constants.FacilityOther:
				stats.Other++
			}
		}
		return stats, nil
	})
}

// GetMonthlyTrend returns per-status creation counts for the six calendar
// months ending with the current one, oldest first.
func (s *StatsService) GetMonthlyTrend(ctx context.Context) ([]dto.MonthlyTrendDTO, error) {
	return withCache(ctx, s, cacheKeyTrend, func() ([]dto.MonthlyTrendDTO, error) {
		tickets, err := s.ticketRepo.AllTickets(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("Failed to get monthly trend", err)
		}

		now := s.now()
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		trend := make([]dto.MonthlyTrendDTO, 0, trendMonths)
		for i := trendMonths - 1; i >= 0; i-- {
			start := firstOfMonth.AddDate(0, -i, 0)
			end := start.AddDate(0, 1, 0)

			entry := dto.MonthlyTrendDTO{Month: start.Format("Jan 2006")}
			for _, t := range tickets {
				if t.CreatedAt.Before(start) || !t.CreatedAt.Before(end) {
					continue
				}
				switch t.Status {
				case constants.StatusWaiting:
					entry.Waiting++
				case constants.StatusInProgress:
					entry.InProgress++
				case constants.StatusCompleted:
					entry.Completed++
				}
			}
			trend = append(trend, entry)
		}
		return trend, nil
	})
}

// reportRange parses the inclusive date range of a report request. The end
// date covers its entire day.
func reportRange(payload dto.DateRangeDTO) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(reportDateLayout, payload.StartDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("Invalid startDate")
	}
	end, err := time.ParseInLocation(reportDateLayout, payload.EndDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("Invalid endDate")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("endDate must not be before startDate")
	}
	return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func matchesReportFilter(t entities.Ticket, payload dto.DateRangeDTO, start, end time.Time) bool {
	if t.CreatedAt.Before(start) || t.CreatedAt.After(end) {
		return false
	}
	if payload.FacilityType != "" && payload.FacilityType != constants.FilterAll && t.FacilityType != payload.FacilityType {
		return false
	}
	if payload.Status != "" && payload.Status != constants.FilterAll && t.Status != payload.Status {
		return false
	}
	return true
}

func (s *StatsService) GetReportSummary(ctx context.Context, payload dto.DateRangeDTO) (*dto.ReportSummaryDTO, error) {
	start, end, err := reportRange(payload)
	if err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.AllTickets(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to get report summary", err)
	}

	var (
		total            int
		completionDays   float64
		completedCount   int
		deadlinedCount   int
		onTimeCount      int
		technicianTotals = map[uint64]*technicianTally{}
	)
	for _, t := range tickets {
		if !matchesReportFilter(t, payload, start, end) {
			continue
		}
		total++

		if t.TechnicianID.Valid {
			tally := technicianTotals[t.TechnicianID.Uint64]
			if tally == nil {
				tally = &technicianTally{}
				technicianTotals[t.TechnicianID.Uint64] = tally
			}
			tally.assigned++
			if t.Status == constants.StatusCompleted {
				tally.completed++
			}
		}

		if t.Status != constants.StatusCompleted || !t.CompletedAt.Valid {
			continue
		}
		completedCount++
		completionDays += t.CompletedAt.Time.Sub(t.CreatedAt).Hours() / 24

		if t.Deadline.Valid {
			deadlinedCount++
			if !t.CompletedAt.Time.After(t.Deadline.Time) {
				onTimeCount++
			}
		}
	}

	summary := &dto.ReportSummaryDTO{
		TotalTickets:         total,
		AvgCompletionTime:    "0.0 hari",
		OnTimePercentage:     "0%",
		TechnicianEfficiency: "0%",
	}
	if completedCount > 0 {
		summary.AvgCompletionTime = fmt.Sprintf("%.1f hari", completionDays/float64(completedCount))
	}
	if deadlinedCount > 0 {
		summary.OnTimePercentage = fmt.Sprintf("%.1f%%", float64(onTimeCount)/float64(deadlinedCount)*100)
	}
	if len(technicianTotals) > 0 {
		// Mean of per-technician completion ratios, so a technician with
		// two tickets weighs the same as one with twenty.
		var ratioSum float64
		for _, tally := range technicianTotals {
			ratioSum += float64(tally.completed) / float64(tally.assigned)
		}
		summary.TechnicianEfficiency = fmt.Sprintf("%.1f%%", ratioSum/float64(len(technicianTotals))*100)
	}
	return summary, nil
}

type technicianTally struct {
	assigned  int
	completed int
}

// GetReportTickets returns the full, unpaginated ticket list backing a
// report, newest first.
func (s *StatsService) GetReportTickets(ctx context.Context, payload dto.DateRangeDTO) ([]dto.TicketView, error) {
	start, end, err := reportRange(payload)
	if err != nil {
		return nil, err
	}

	filter := dto.TicketFilter{
		DateFrom: &start,
		DateTo:   &end,
		Page:     1,
		Limit:    100000,
	}
	if payload.FacilityType != "" && payload.FacilityType != constants.FilterAll {
		filter.FacilityType = payload.FacilityType
	}
	if payload.Status != "" && payload.Status != constants.FilterAll {
		filter.Status = payload.Status
	}

	tickets, _, err := s.ticketRepo.ListTickets(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to get report tickets", err)
	}
	return tickets, nil
}
