package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"facility-tickets/internal/dto"
	"facility-tickets/internal/entities"
	"facility-tickets/internal/repositories"
	"facility-tickets/pkg/constants"
	apperrors "facility-tickets/pkg/errors"
)

const (
	DefaultPageLimit   = 10
	DefaultRecentLimit = 5

	notesTicketCreated  = "Ticket created"
	notesTicketAssigned = "Ticket assigned to technician"
)

// firstTicketNumber seeds the sequence on an empty store.
const firstTicketNumber = 1000

type TicketServiceInterface interface {
	CreateTicket(ctx context.Context, payload dto.CreateTicketDTO) (*entities.Ticket, error)
	GetTickets(ctx context.Context, filter dto.TicketFilter) (*dto.TicketListDTO, error)
	GetRecentTickets(ctx context.Context, limit int) ([]dto.TicketView, error)
	FindTicket(ctx context.Context, id uint64) (*dto.TicketView, error)
	UpdateTicket(ctx context.Context, id uint64, changes dto.UpdateTicketDTO) (*entities.Ticket, error)
	AssignTicket(ctx context.Context, id uint64, payload dto.AssignTicketDTO) (*entities.Ticket, error)
	CompleteTicket(ctx context.Context, id uint64, payload dto.CompleteTicketDTO) (*entities.Ticket, error)
	GetTicketHistory(ctx context.Context, id uint64) ([]entities.TicketHistory, error)
}

type TicketService struct {
	ticketRepo     repositories.TicketRepositoryInterface
	historyRepo    repositories.TicketHistoryRepositoryInterface
	technicianRepo repositories.TechnicianRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	logger         *zap.Logger
}

func NewTicketService(
	ticketRepo repositories.TicketRepositoryInterface,
	historyRepo repositories.TicketHistoryRepositoryInterface,
	technicianRepo repositories.TechnicianRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) TicketServiceInterface {
	return &TicketService{
		ticketRepo:     ticketRepo,
		historyRepo:    historyRepo,
		technicianRepo: technicianRepo,
		cacheRepo:      cacheRepo,
		logger:         logger,
	}
}

// NextTicketNumber computes the next human-readable ticket number from the
// numbers already issued: max numeric suffix + 1, TK-1000 on an empty
// store. Suffixes are never reused.
func NextTicketNumber(existing []string) string {
	max := 0
	for _, number := range existing {
		idx := strings.LastIndex(number, "-")
		if idx < 0 {
			continue
		}
		n, err := strconv.Atoi(number[idx+1:])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return fmt.Sprintf("TK-%d", firstTicketNumber)
	}
	return fmt.Sprintf("TK-%d", max+1)
}

func (s *TicketService) CreateTicket(ctx context.Context, payload dto.CreateTicketDTO) (*entities.Ticket, error) {
	if !constants.IsValidFacilityType(payload.FacilityType) {
		return nil, apperrors.NewBadRequestError("Invalid facility type")
	}
	if !constants.IsValidPriority(payload.Priority) {
		return nil, apperrors.NewBadRequestError("Invalid priority")
	}

	numbers, err := s.ticketRepo.TicketNumbers(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to create ticket", err)
	}

	ticket, err := s.ticketRepo.CreateTicket(ctx, entities.Ticket{
		TicketNumber: NextTicketNumber(numbers),
		FacilityType: payload.FacilityType,
		FacilityName: payload.FacilityName,
		Location:     payload.Location,
		Description:  payload.Description,
		Status:       constants.StatusWaiting,
		Priority:     payload.Priority,
		CreatedBy:    payload.CreatedBy,
	}, notesTicketCreated)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to create ticket", err)
	}

	s.invalidateStatsCache(ctx)
	s.logger.Info("ticket created",
		zap.Uint64("id", ticket.ID),
		zap.String("ticketNumber", ticket.TicketNumber),
	)
	return ticket, nil
}

// normalizeFilter resolves the "all" sentinels and fills the pagination
// defaults.
func normalizeFilter(filter dto.TicketFilter) (dto.TicketFilter, error) {
	if filter.Status == constants.FilterAll {
		filter.Status = ""
	}
	if filter.FacilityType == constants.FilterAll {
		filter.FacilityType = ""
	}
	if filter.Priority == constants.FilterAll {
		filter.Priority = ""
	}
	if filter.Status != "" && !constants.IsValidStatus(filter.Status) {
		return filter, apperrors.NewBadRequestError("Invalid status filter")
	}
	if filter.FacilityType != "" && !constants.IsValidFacilityType(filter.FacilityType) {
		return filter, apperrors.NewBadRequestError("Invalid facility type filter")
	}
	if filter.Priority != "" && !constants.IsValidPriority(filter.Priority) {
		return filter, apperrors.NewBadRequestError("Invalid priority filter")
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Page < 1 {
		return filter, apperrors.NewBadRequestError("Invalid page")
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultPageLimit
	}
	if filter.Limit < 0 {
		return filter, apperrors.NewBadRequestError("Invalid limit")
	}
	return filter, nil
}

func (s *TicketService) GetTickets(ctx context.Context, filter dto.TicketFilter) (*dto.TicketListDTO, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	tickets, total, err := s.ticketRepo.ListTickets(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to get tickets", err)
	}
	return &dto.TicketListDTO{Tickets: tickets, Total: total}, nil
}

func (s *TicketService) GetRecentTickets(ctx context.Context, limit int) ([]dto.TicketView, error) {
	if limit <= 0 {
		return nil, apperrors.NewBadRequestError("Invalid limit")
	}
	tickets, _, err := s.ticketRepo.ListTickets(ctx, dto.TicketFilter{Page: 1, Limit: limit})
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to get recent tickets", err)
	}
	return tickets, nil
}

func (s *TicketService) FindTicket(ctx context.Context, id uint64) (*dto.TicketView, error) {
	ticket, err := s.ticketRepo.FindTicket(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Ticket not found")
		}
		return nil, apperrors.NewInternalError("Failed to get ticket", err)
	}
	return ticket, nil
}

func (s *TicketService) UpdateTicket(ctx context.Context, id uint64, changes dto.UpdateTicketDTO) (*entities.Ticket, error) {
	// A status change is audited, so it needs an author.
	if changes.Status != nil && changes.UpdatedBy == nil {
		return nil, apperrors.NewBadRequestError("updatedBy is required when changing status")
	}

	ticket, err := s.ticketRepo.UpdateTicket(ctx, id, changes)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Ticket not found")
		}
		return nil, apperrors.NewInternalError("Failed to update ticket", err)
	}

	s.invalidateStatsCache(ctx)
	return ticket, nil
}

// AssignTicket moves the ticket to in_progress. Re-assigning an already
// assigned ticket overwrites technician and deadline and appends another
// history row; past deadlines are accepted.
func (s *TicketService) AssignTicket(ctx context.Context, id uint64, payload dto.AssignTicketDTO) (*entities.Ticket, error) {
	if _, err := s.technicianRepo.FindTechnician(ctx, payload.TechnicianID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewBadRequestError("Technician does not exist")
		}
		return nil, apperrors.NewInternalError("Failed to assign ticket", err)
	}

	notes := notesTicketAssigned
	if payload.Notes != nil && *payload.Notes != "" {
		notes = *payload.Notes
	}

	ticket, err := s.ticketRepo.AssignTicket(ctx, id, payload.TechnicianID, payload.Deadline, payload.UpdatedBy, notes)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Ticket not found")
		}
		return nil, apperrors.NewInternalError("Failed to assign ticket", err)
	}

	s.invalidateStatsCache(ctx)
	s.logger.Info("ticket assigned",
		zap.Uint64("id", id),
		zap.Uint64("technicianId", payload.TechnicianID),
	)
	return ticket, nil
}

// CompleteTicket marks the ticket completed. Completing a waiting ticket
// directly is permitted.
func (s *TicketService) CompleteTicket(ctx context.Context, id uint64, payload dto.CompleteTicketDTO) (*entities.Ticket, error) {
	if payload.Notes == "" || payload.UpdatedBy == 0 {
		return nil, apperrors.NewBadRequestError("notes and updatedBy are required")
	}

	ticket, err := s.ticketRepo.CompleteTicket(ctx, id, payload.Notes, payload.UpdatedBy)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Ticket not found")
		}
		return nil, apperrors.NewInternalError("Failed to complete ticket", err)
	}

	s.invalidateStatsCache(ctx)
	s.logger.Info("ticket completed", zap.Uint64("id", id))
	return ticket, nil
}

func (s *TicketService) GetTicketHistory(ctx context.Context, id uint64) ([]entities.TicketHistory, error) {
	if _, err := s.ticketRepo.FindTicket(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Ticket not found")
		}
		return nil, apperrors.NewInternalError("Failed to get ticket history", err)
	}

	history, err := s.historyRepo.GetTicketHistory(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to get ticket history", err)
	}
	return history, nil
}

func (s *TicketService) invalidateStatsCache(ctx context.Context) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Del(ctx, statsCacheKeys...); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}
