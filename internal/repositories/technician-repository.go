package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"facility-tickets/internal/dto"
	"facility-tickets/internal/entities"
	apperrors "facility-tickets/pkg/errors"
)

type TechnicianRepositoryInterface interface {
	FindTechnician(ctx context.Context, id uint64) (*entities.Technician, error)
	GetActiveTechnicians(ctx context.Context) ([]dto.TechnicianWithUser, error)
	CreateTechnician(ctx context.Context, technician entities.Technician) (*entities.Technician, error)
}

type TechnicianRepository struct {
	storage *pgxpool.Pool
}

func NewTechnicianRepository(storage *pgxpool.Pool) TechnicianRepositoryInterface {
	return &TechnicianRepository{storage: storage}
}

func (r *TechnicianRepository) FindTechnician(ctx context.Context, id uint64) (*entities.Technician, error) {
	query := `SELECT id, user_id, specialization, initials, active FROM technicians WHERE id = $1`

	var tech entities.Technician
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&tech.ID, &tech.UserID, &tech.Specialization, &tech.Initials, &tech.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan technician: %w", err)
	}
	return &tech, nil
}

func (r *TechnicianRepository) GetActiveTechnicians(ctx context.Context) ([]dto.TechnicianWithUser, error) {
	query := `
		SELECT
			t.id, t.user_id, t.specialization, t.initials, t.active,
			u.id, u.username, u.full_name, u.role
		FROM technicians t
		JOIN users u ON t.user_id = u.id
		WHERE t.active = TRUE
		ORDER BY t.id`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query technicians: %w", err)
	}
	defer rows.Close()

	technicians := make([]dto.TechnicianWithUser, 0)
	for rows.Next() {
		var tech dto.TechnicianWithUser
		err := rows.Scan(
			&tech.ID, &tech.UserID, &tech.Specialization, &tech.Initials, &tech.Active,
			&tech.User.ID, &tech.User.Username, &tech.User.FullName, &tech.User.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician row: %w", err)
		}
		technicians = append(technicians, tech)
	}
	return technicians, rows.Err()
}

func (r *TechnicianRepository) CreateTechnician(ctx context.Context, technician entities.Technician) (*entities.Technician, error) {
	query := `INSERT INTO technicians (user_id, specialization, initials, active) VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.storage.QueryRow(ctx, query,
		technician.UserID, technician.Specialization, technician.Initials, technician.Active,
	).Scan(&technician.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert technician: %w", err)
	}
	return &technician, nil
}
