package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/aarondl/null/v8"

	"facility-tickets/internal/dto"
	"facility-tickets/internal/entities"
	"facility-tickets/pkg/constants"
	apperrors "facility-tickets/pkg/errors"
)

// fakeTicketRepo is an in-memory stand-in mirroring the SQL repository's
// documented behavior.
type fakeTicketRepo struct {
	tickets []entities.Ticket
	history []entities.TicketHistory
	now     func() time.Time

	nextTicketID  uint64
	nextHistoryID uint64
	allCalls      int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{now: time.Now}
}

func (r *fakeTicketRepo) appendHistory(ticketID uint64, status, notes string, updatedBy uint64) {
	r.nextHistoryID++
	r.history = append(r.history, entities.TicketHistory{
		ID:        r.nextHistoryID,
		TicketID:  ticketID,
		Status:    status,
		Notes:     null.StringFrom(notes),
		UpdatedBy: updatedBy,
		CreatedAt: r.now(),
	})
}

func (r *fakeTicketRepo) TicketNumbers(ctx context.Context) ([]string, error) {
	numbers := make([]string, 0, len(r.tickets))
	for _, t := range r.tickets {
		numbers = append(numbers, t.TicketNumber)
	}
	return numbers, nil
}

func (r *fakeTicketRepo) CreateTicket(ctx context.Context, ticket entities.Ticket, historyNotes string) (*entities.Ticket, error) {
	r.nextTicketID++
	ticket.ID = r.nextTicketID
	ticket.Status = constants.StatusWaiting
	ticket.CreatedAt = r.now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets = append(r.tickets, ticket)
	r.appendHistory(ticket.ID, constants.StatusWaiting, historyNotes, ticket.CreatedBy)
	return &ticket, nil
}

func (r *fakeTicketRepo) find(id uint64) (int, bool) {
	for i, t := range r.tickets {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (r *fakeTicketRepo) FindTicket(ctx context.Context, id uint64) (*dto.TicketView, error) {
	i, ok := r.find(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &dto.TicketView{Ticket: r.tickets[i]}, nil
}

func matchesFilter(t entities.Ticket, filter dto.TicketFilter) bool {
	if filter.Status != "" && t.Status != filter.Status {
		return false
	}
	if filter.FacilityType != "" && t.FacilityType != filter.FacilityType {
		return false
	}
	if filter.Priority != "" && t.Priority != filter.Priority {
		return false
	}
	if filter.TechnicianID != nil && (!t.TechnicianID.Valid || t.TechnicianID.Uint64 != *filter.TechnicianID) {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(t.TicketNumber), needle) &&
			!strings.Contains(strings.ToLower(t.FacilityName), needle) &&
			!strings.Contains(strings.ToLower(t.Location), needle) {
			return false
		}
	}
	if filter.DateFrom != nil && t.CreatedAt.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && t.CreatedAt.After(*filter.DateTo) {
		return false
	}
	return true
}

func (r *fakeTicketRepo) ListTickets(ctx context.Context, filter dto.TicketFilter) ([]dto.TicketView, uint64, error) {
	matched := make([]entities.Ticket, 0)
	for _, t := range r.tickets {
		if matchesFilter(t, filter) {
			matched = append(matched, t)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := uint64(len(matched))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return []dto.TicketView{}, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}

	views := make([]dto.TicketView, 0, end-offset)
	for _, t := range matched[offset:end] {
		views = append(views, dto.TicketView{Ticket: t})
	}
	return views, total, nil
}

func (r *fakeTicketRepo) UpdateTicket(ctx context.Context, id uint64, changes dto.UpdateTicketDTO) (*entities.Ticket, error) {
	i, ok := r.find(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	t := &r.tickets[i]
	if changes.FacilityType != nil {
		t.FacilityType = *changes.FacilityType
	}
	if changes.FacilityName != nil {
		t.FacilityName = *changes.FacilityName
	}
	if changes.Location != nil {
		t.Location = *changes.Location
	}
	if changes.Description != nil {
		t.Description = *changes.Description
	}
	if changes.Priority != nil {
		t.Priority = *changes.Priority
	}
	if changes.Status != nil {
		t.Status = *changes.Status
	}
	if changes.TechnicianID != nil {
		t.TechnicianID = null.Uint64From(*changes.TechnicianID)
	}
	if changes.Deadline != nil {
		t.Deadline = null.TimeFrom(*changes.Deadline)
	}
	t.UpdatedAt = r.now()

	if changes.Status != nil {
		notes := "Status updated to " + *changes.Status
		if changes.Notes != nil {
			notes = *changes.Notes
		}
		r.appendHistory(id, *changes.Status, notes, *changes.UpdatedBy)
	}
	result := *t
	return &result, nil
}

func (r *fakeTicketRepo) AssignTicket(ctx context.Context, id uint64, technicianID uint64, deadline time.Time, updatedBy uint64, notes string) (*entities.Ticket, error) {
	i, ok := r.find(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	t := &r.tickets[i]
	t.TechnicianID = null.Uint64From(technicianID)
	t.Deadline = null.TimeFrom(deadline)
	t.Status = constants.StatusInProgress
	t.UpdatedAt = r.now()
	r.appendHistory(id, constants.StatusInProgress, notes, updatedBy)
	result := *t
	return &result, nil
}

func (r *fakeTicketRepo) CompleteTicket(ctx context.Context, id uint64, notes string, updatedBy uint64) (*entities.Ticket, error) {
	i, ok := r.find(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	t := &r.tickets[i]
	t.Status = constants.StatusCompleted
	t.CompletedAt = null.TimeFrom(r.now())
	t.UpdatedAt = r.now()
	r.appendHistory(id, constants.StatusCompleted, notes, updatedBy)
	result := *t
	return &result, nil
}

func (r *fakeTicketRepo) AllTickets(ctx context.Context) ([]entities.Ticket, error) {
	r.allCalls++
	return append([]entities.Ticket(nil), r.tickets...), nil
}

type fakeHistoryRepo struct {
	source *fakeTicketRepo
}

func (r *fakeHistoryRepo) GetTicketHistory(ctx context.Context, ticketID uint64) ([]entities.TicketHistory, error) {
	history := make([]entities.TicketHistory, 0)
	for _, h := range r.source.history {
		if h.TicketID == ticketID {
			history = append(history, h)
		}
	}
	// Newest first, matching the SQL ordering.
	sort.SliceStable(history, func(i, j int) bool { return history[i].ID > history[j].ID })
	return history, nil
}

type fakeTechnicianRepo struct {
	technicians []dto.TechnicianWithUser
}

func (r *fakeTechnicianRepo) FindTechnician(ctx context.Context, id uint64) (*entities.Technician, error) {
	for _, tech := range r.technicians {
		if tech.ID == id {
			t := tech.Technician
			return &t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeTechnicianRepo) GetActiveTechnicians(ctx context.Context) ([]dto.TechnicianWithUser, error) {
	active := make([]dto.TechnicianWithUser, 0)
	for _, tech := range r.technicians {
		if tech.Active {
			active = append(active, tech)
		}
	}
	return active, nil
}

func (r *fakeTechnicianRepo) CreateTechnician(ctx context.Context, technician entities.Technician) (*entities.Technician, error) {
	technician.ID = uint64(len(r.technicians) + 1)
	r.technicians = append(r.technicians, dto.TechnicianWithUser{Technician: technician})
	return &technician, nil
}

type fakeUserRepo struct {
	users []entities.User
}

func (r *fakeUserRepo) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	user.ID = uint64(len(r.users) + 1)
	r.users = append(r.users, user)
	return &user, nil
}

// fakeCacheRepo records operations so tests can assert invalidation.
type fakeCacheRepo struct {
	store   map[string]string
	deleted []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{store: map[string]string{}}
}

func (r *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	if v, ok := r.store[key]; ok {
		return v, nil
	}
	return "", apperrors.ErrNotFound
}

func (r *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	r.store[key] = value.(string)
	return nil
}

func (r *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(r.store, key)
		r.deleted = append(r.deleted, key)
	}
	return nil
}
