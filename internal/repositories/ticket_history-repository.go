package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"facility-tickets/internal/entities"
)

type TicketHistoryRepositoryInterface interface {
	GetTicketHistory(ctx context.Context, ticketID uint64) ([]entities.TicketHistory, error)
}

type TicketHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewTicketHistoryRepository(storage *pgxpool.Pool) TicketHistoryRepositoryInterface {
	return &TicketHistoryRepository{storage: storage}
}

func (r *TicketHistoryRepository) GetTicketHistory(ctx context.Context, ticketID uint64) ([]entities.TicketHistory, error) {
	query := `
		SELECT id, ticket_id, status, notes, updated_by, created_at
		FROM ticket_history
		WHERE ticket_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.storage.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket history: %w", err)
	}
	defer rows.Close()

	history := make([]entities.TicketHistory, 0)
	for rows.Next() {
		var h entities.TicketHistory
		err := rows.Scan(&h.ID, &h.TicketID, &h.Status, &h.Notes, &h.UpdatedBy, &h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket history row: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
