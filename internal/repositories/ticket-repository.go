package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"facility-tickets/internal/dto"
	"facility-tickets/internal/entities"
	"facility-tickets/pkg/constants"
	apperrors "facility-tickets/pkg/errors"
)

type TicketRepositoryInterface interface {
	TicketNumbers(ctx context.Context) ([]string, error)
	CreateTicket(ctx context.Context, ticket entities.Ticket, historyNotes string) (*entities.Ticket, error)
	FindTicket(ctx context.Context, id uint64) (*dto.TicketView, error)
	ListTickets(ctx context.Context, filter dto.TicketFilter) ([]dto.TicketView, uint64, error)
	UpdateTicket(ctx context.Context, id uint64, changes dto.UpdateTicketDTO) (*entities.Ticket, error)
	AssignTicket(ctx context.Context, id uint64, technicianID uint64, deadline time.Time, updatedBy uint64, notes string) (*entities.Ticket, error)
	CompleteTicket(ctx context.Context, id uint64, notes string, updatedBy uint64) (*entities.Ticket, error)
	AllTickets(ctx context.Context) ([]entities.Ticket, error)
}

type TicketRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTicketRepository(storage *pgxpool.Pool, logger *zap.Logger) TicketRepositoryInterface {
	return &TicketRepository{storage: storage, logger: logger}
}

const ticketColumns = `id, ticket_number, facility_type, facility_name, location, description,
	status, priority, created_by, technician_id, created_at, updated_at, deadline, completed_at`

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var t entities.Ticket
	err := row.Scan(
		&t.ID, &t.TicketNumber, &t.FacilityType, &t.FacilityName, &t.Location, &t.Description,
		&t.Status, &t.Priority, &t.CreatedBy, &t.TechnicianID, &t.CreatedAt, &t.UpdatedAt,
		&t.Deadline, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}
	return &t, nil
}

func (r *TicketRepository) TicketNumbers(ctx context.Context) ([]string, error) {
	rows, err := r.storage.Query(ctx, `SELECT ticket_number FROM tickets`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket numbers: %w", err)
	}
	defer rows.Close()

	numbers := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan ticket number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// CreateTicket inserts the ticket and its creation-history row in one
// transaction; a ticket without a creation entry is an invariant
// violation.
func (r *TicketRepository) CreateTicket(ctx context.Context, ticket entities.Ticket, historyNotes string) (t *entities.Ticket, err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else if commitErr := tx.Commit(ctx); commitErr != nil {
			err = commitErr
			t = nil
		}
	}()

	insertQuery := `
		INSERT INTO tickets (ticket_number, facility_type, facility_name, location, description,
			status, priority, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + ticketColumns

	t, err = scanTicket(tx.QueryRow(ctx, insertQuery,
		ticket.TicketNumber, ticket.FacilityType, ticket.FacilityName, ticket.Location,
		ticket.Description, constants.StatusWaiting, ticket.Priority, ticket.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}

	historyQuery := `INSERT INTO ticket_history (ticket_id, status, notes, updated_by, created_at) VALUES ($1, $2, $3, $4, NOW())`
	if _, err = tx.Exec(ctx, historyQuery, t.ID, constants.StatusWaiting, historyNotes, ticket.CreatedBy); err != nil {
		return nil, fmt.Errorf("failed to insert ticket history: %w", err)
	}
	return t, nil
}

// baseViewSelect carries the FROM/JOIN/WHERE shared by the count and page
// queries, so the total always reflects the same predicate set.
func baseViewSelect(filter dto.TicketFilter) sq.SelectBuilder {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select().
		From("tickets t").
		LeftJoin("technicians tech ON t.technician_id = tech.id").
		LeftJoin("users tu ON tech.user_id = tu.id").
		LeftJoin("users cu ON t.created_by = cu.id")

	if filter.Status != "" {
		b = b.Where(sq.Eq{"t.status": filter.Status})
	}
	if filter.FacilityType != "" {
		b = b.Where(sq.Eq{"t.facility_type": filter.FacilityType})
	}
	if filter.Priority != "" {
		b = b.Where(sq.Eq{"t.priority": filter.Priority})
	}
	if filter.TechnicianID != nil {
		b = b.Where(sq.Eq{"t.technician_id": *filter.TechnicianID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"t.ticket_number": pattern},
			sq.ILike{"t.facility_name": pattern},
			sq.ILike{"t.location": pattern},
		})
	}
	if filter.DateFrom != nil {
		b = b.Where(sq.GtOrEq{"t.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		b = b.Where(sq.LtOrEq{"t.created_at": *filter.DateTo})
	}
	return b
}

var viewColumns = []string{
	"t.id", "t.ticket_number", "t.facility_type", "t.facility_name", "t.location",
	"t.description", "t.status", "t.priority", "t.created_by", "t.technician_id",
	"t.created_at", "t.updated_at", "t.deadline", "t.completed_at",
	"tech.id", "tech.user_id", "tech.specialization", "tech.initials", "tech.active",
	"tu.id", "tu.username", "tu.full_name", "tu.role",
	"cu.id", "cu.username", "cu.full_name", "cu.role",
}

func scanTicketView(rows pgx.Rows) (*dto.TicketView, error) {
	var view dto.TicketView
	var (
		techID, techUserID, techUserID2       null.Uint64
		techSpecialization, techInitials      null.String
		techActive                            null.Bool
		techUsername, techFullName, techRole  null.String
		creatorID                             null.Uint64
		creatorName, creatorFull, creatorRole null.String
	)

	err := rows.Scan(
		&view.ID, &view.TicketNumber, &view.FacilityType, &view.FacilityName, &view.Location,
		&view.Description, &view.Status, &view.Priority, &view.CreatedBy, &view.TechnicianID,
		&view.CreatedAt, &view.UpdatedAt, &view.Deadline, &view.CompletedAt,
		&techID, &techUserID, &techSpecialization, &techInitials, &techActive,
		&techUserID2, &techUsername, &techFullName, &techRole,
		&creatorID, &creatorName, &creatorFull, &creatorRole,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ticket view: %w", err)
	}

	// An unresolvable creator is a data-integrity error, never silently
	// dropped.
	if !creatorID.Valid {
		return nil, fmt.Errorf("ticket %d references missing creator %d", view.ID, view.CreatedBy)
	}
	view.CreatedByUser = entities.User{
		ID:       creatorID.Uint64,
		Username: creatorName.String,
		FullName: creatorFull.String,
		Role:     creatorRole.String,
	}

	if techID.Valid && techUserID2.Valid {
		view.Technician = &dto.TechnicianWithUser{
			Technician: entities.Technician{
				ID:             techID.Uint64,
				UserID:         techUserID.Uint64,
				Specialization: techSpecialization.String,
				Initials:       techInitials.String,
				Active:         techActive.Bool,
			},
			User: entities.User{
				ID:       techUserID2.Uint64,
				Username: techUsername.String,
				FullName: techFullName.String,
				Role:     techRole.String,
			},
		}
	}
	return &view, nil
}

func (r *TicketRepository) ListTickets(ctx context.Context, filter dto.TicketFilter) ([]dto.TicketView, uint64, error) {
	base := baseViewSelect(filter)

	countQuery, countArgs, err := base.Columns("COUNT(t.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total uint64
	if err = r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	// Newest first; id ascending keeps insertion order stable within a
	// timestamp.
	main := base.Columns(viewColumns...).
		OrderBy("t.created_at DESC", "t.id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit))

	query, args, err := main.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]dto.TicketView, 0)
	for rows.Next() {
		view, err := scanTicketView(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *view)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *TicketRepository) FindTicket(ctx context.Context, id uint64) (*dto.TicketView, error) {
	query, args, err := baseViewSelect(dto.TicketFilter{}).
		Columns(viewColumns...).
		Where(sq.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrNotFound
	}
	return scanTicketView(rows)
}

func (r *TicketRepository) UpdateTicket(ctx context.Context, id uint64, changes dto.UpdateTicketDTO) (t *entities.Ticket, err error) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update("tickets").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + ticketColumns)

	if changes.FacilityType != nil {
		b = b.Set("facility_type", *changes.FacilityType)
	}
	if changes.FacilityName != nil {
		b = b.Set("facility_name", *changes.FacilityName)
	}
	if changes.Location != nil {
		b = b.Set("location", *changes.Location)
	}
	if changes.Description != nil {
		b = b.Set("description", *changes.Description)
	}
	if changes.Priority != nil {
		b = b.Set("priority", *changes.Priority)
	}
	if changes.Status != nil {
		b = b.Set("status", *changes.Status)
	}
	if changes.TechnicianID != nil {
		b = b.Set("technician_id", *changes.TechnicianID)
	}
	if changes.Deadline != nil {
		b = b.Set("deadline", *changes.Deadline)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else if commitErr := tx.Commit(ctx); commitErr != nil {
			err = commitErr
			t = nil
		}
	}()

	t, err = scanTicket(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if changes.Status != nil {
		notes := fmt.Sprintf("Status updated to %s", *changes.Status)
		if changes.Notes != nil {
			notes = *changes.Notes
		}
		historyQuery := `INSERT INTO ticket_history (ticket_id, status, notes, updated_by, created_at) VALUES ($1, $2, $3, $4, NOW())`
		if _, err = tx.Exec(ctx, historyQuery, id, *changes.Status, notes, *changes.UpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to insert ticket history: %w", err)
		}
	}
	return t, nil
}

func (r *TicketRepository) AssignTicket(ctx context.Context, id uint64, technicianID uint64, deadline time.Time, updatedBy uint64, notes string) (t *entities.Ticket, err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else if commitErr := tx.Commit(ctx); commitErr != nil {
			err = commitErr
			t = nil
		}
	}()

	updateQuery := `
		UPDATE tickets
		SET technician_id = $1, deadline = $2, status = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + ticketColumns

	t, err = scanTicket(tx.QueryRow(ctx, updateQuery, technicianID, deadline, constants.StatusInProgress, id))
	if err != nil {
		return nil, err
	}

	historyQuery := `INSERT INTO ticket_history (ticket_id, status, notes, updated_by, created_at) VALUES ($1, $2, $3, $4, NOW())`
	if _, err = tx.Exec(ctx, historyQuery, id, constants.StatusInProgress, notes, updatedBy); err != nil {
		return nil, fmt.Errorf("failed to insert ticket history: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) CompleteTicket(ctx context.Context, id uint64, notes string, updatedBy uint64) (t *entities.Ticket, err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else if commitErr := tx.Commit(ctx); commitErr != nil {
			err = commitErr
			t = nil
		}
	}()

	updateQuery := `
		UPDATE tickets
		SET status = $1, completed_at = NOW(), updated_at = NOW()
		WHERE id = $2
		RETURNING ` + ticketColumns

	t, err = scanTicket(tx.QueryRow(ctx, updateQuery, constants.StatusCompleted, id))
	if err != nil {
		return nil, err
	}

	historyQuery := `INSERT INTO ticket_history (ticket_id, status, notes, updated_by, created_at) VALUES ($1, $2, $3, $4, NOW())`
	if _, err = tx.Exec(ctx, historyQuery, id, constants.StatusCompleted, notes, updatedBy); err != nil {
		return nil, fmt.Errorf("failed to insert ticket history: %w", err)
	}
	return t, nil
}

// AllTickets returns the full corpus for the in-memory statistics engine.
func (r *TicketRepository) AllTickets(ctx context.Context) ([]entities.Ticket, error) {
	rows, err := r.storage.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]entities.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}
