package services

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"facility-tickets/internal/dto"
	"facility-tickets/internal/entities"
	"facility-tickets/internal/repositories"
	"facility-tickets/pkg/constants"
	apperrors "facility-tickets/pkg/errors"
)

type TechnicianServiceInterface interface {
	CreateTechnician(ctx context.Context, payload dto.CreateTechnicianDTO) (*entities.Technician, error)
	GetTechnicians(ctx context.Context) ([]dto.TechnicianView, error)
}

type TechnicianService struct {
	technicianRepo repositories.TechnicianRepositoryInterface
	userRepo       repositories.UserRepositoryInterface
	ticketRepo     repositories.TicketRepositoryInterface
	logger         *zap.Logger
}

func NewTechnicianService(
	technicianRepo repositories.TechnicianRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	ticketRepo repositories.TicketRepositoryInterface,
	logger *zap.Logger,
) TechnicianServiceInterface {
	return &TechnicianService{
		technicianRepo: technicianRepo,
		userRepo:       userRepo,
		ticketRepo:     ticketRepo,
		logger:         logger,
	}
}

func (s *TechnicianService) CreateTechnician(ctx context.Context, payload dto.CreateTechnicianDTO) (*entities.Technician, error) {
	if _, err := s.userRepo.FindUser(ctx, payload.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		return nil, apperrors.NewInternalError("Failed to create technician", err)
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	technician, err := s.technicianRepo.CreateTechnician(ctx, entities.Technician{
		UserID:         payload.UserID,
		Specialization: payload.Specialization,
		Initials:       payload.Initials,
		Active:         active,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to create technician", err)
	}
	s.logger.Info("technician created", zap.Uint64("id", technician.ID), zap.Uint64("userId", technician.UserID))
	return technician, nil
}

// GetTechnicians returns every active technician together with workload
// and performance numbers derived from the full ticket corpus.
func (s *TechnicianService) GetTechnicians(ctx context.Context) ([]dto.TechnicianView, error) {
	technicians, err := s.technicianRepo.GetActiveTechnicians(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to get technicians", err)
	}

	tickets, err := s.ticketRepo.AllTickets(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to get technicians", err)
	}

	views := make([]dto.TechnicianView, 0, len(technicians))
	for _, tech := range technicians {
		view := dto.TechnicianView{TechnicianWithUser: tech}

		var completionDays float64
		for _, t := range tickets {
			if !t.TechnicianID.Valid || t.TechnicianID.Uint64 != tech.ID {
				continue
			}
			switch {
			case constants.IsOpenStatus(t.Status):
				view.ActiveTickets++
			case t.Status == constants.StatusCompleted:
				view.CompletedTickets++
				if t.CompletedAt.Valid {
					completionDays += t.CompletedAt.Time.Sub(t.CreatedAt).Hours() / 24
				}
			}
		}
		if view.CompletedTickets > 0 {
			avg := completionDays / float64(view.CompletedTickets)
			view.AverageCompletionTime = math.Round(avg*10) / 10
		}
		views = append(views, view)
	}
	return views, nil
}
