package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"facility-tickets/internal/dto"
	"facility-tickets/internal/entities"
	"facility-tickets/pkg/constants"
	apperrors "facility-tickets/pkg/errors"
)

func newTicketServiceForTest(ticketRepo *fakeTicketRepo, techRepo *fakeTechnicianRepo, cache *fakeCacheRepo) TicketServiceInterface {
	return NewTicketService(ticketRepo, &fakeHistoryRepo{source: ticketRepo}, techRepo, cache, zap.NewNop())
}

func createTicketPayload() dto.CreateTicketDTO {
	return dto.CreateTicketDTO{
		FacilityType: constants.FacilityAC,
		FacilityName: "AC Ruang Rapat",
		Location:     "Lantai 2",
		Description:  "AC tidak dingin",
		Priority:     constants.PriorityHigh,
		CreatedBy:    1,
	}
}

func TestNextTicketNumber(t *testing.T) {
	assert.Equal(t, "TK-1000", NextTicketNumber(nil))
	assert.Equal(t, "TK-1001", NextTicketNumber([]string{"TK-1000"}))
	assert.Equal(t, "TK-1043", NextTicketNumber([]string{"TK-1042", "TK-1007", "TK-1000"}))
	// Unparsable suffixes are skipped rather than breaking numbering.
	assert.Equal(t, "TK-1001", NextTicketNumber([]string{"TK-1000", "garbage", "TK-abc"}))
}

func TestCreateTicketSequence(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketServiceForTest(repo, &fakeTechnicianRepo{}, newFakeCacheRepo())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ticket, err := svc.CreateTicket(ctx, createTicketPayload())
		require.NoError(t, err)
		assert.Equal(t, constants.StatusWaiting, ticket.Status)
		assert.False(t, ticket.TechnicianID.Valid)
		assert.False(t, ticket.Deadline.Valid)
		assert.False(t, ticket.CompletedAt.Valid)
	}

	numbers, err := repo.TicketNumbers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"TK-1000", "TK-1001", "TK-1002"}, numbers)
}

func TestCreateTicketWritesHistory(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketServiceForTest(repo, &fakeTechnicianRepo{}, newFakeCacheRepo())

	ticket, err := svc.CreateTicket(context.Background(), createTicketPayload())
	require.NoError(t, err)

	require.Len(t, repo.history, 1)
	h := repo.history[0]
	assert.Equal(t, ticket.ID, h.TicketID)
	assert.Equal(t, constants.StatusWaiting, h.Status)
	assert.Equal(t, "Ticket created", h.Notes.String)
	assert.Equal(t, ticket.CreatedBy, h.UpdatedBy)
}

func TestCreateTicketRejectsUnknownEnums(t *testing.T) {
	svc := newTicketServiceForTest(newFakeTicketRepo(), &fakeTechnicianRepo{}, newFakeCacheRepo())

	payload := createTicketPayload()
	payload.FacilityType = "garden"
	_, err := svc.CreateTicket(context.Background(), payload)
	assertHTTPCode(t, err, 400)

	payload = createTicketPayload()
	payload.Priority = "urgent"
	_, err = svc.CreateTicket(context.Background(), payload)
	assertHTTPCode(t, err, 400)
}

func TestAssignTicketLifecycle(t *testing.T) {
	repo := newFakeTicketRepo()
	techRepo := &fakeTechnicianRepo{technicians: []dto.TechnicianWithUser{
		{Technician: entities.Technician{ID: 2, UserID: 5, Active: true}},
	}}
	svc := newTicketServiceForTest(repo, techRepo, newFakeCacheRepo())
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, createTicketPayload())
	require.NoError(t, err)

	deadline := time.Now().Add(48 * time.Hour)
	assigned, err := svc.AssignTicket(ctx, created.ID, dto.AssignTicketDTO{
		TechnicianID: 2,
		Deadline:     deadline,
		UpdatedBy:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, assigned.Status)
	assert.Equal(t, uint64(2), assigned.TechnicianID.Uint64)
	assert.True(t, assigned.Deadline.Valid)

	require.Len(t, repo.history, 2)
	assert.Equal(t, constants.StatusInProgress, repo.history[1].Status)
	assert.Equal(t, "Ticket assigned to technician", repo.history[1].Notes.String)
}

func TestAssignTicketUnknownTechnician(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketServiceForTest(repo, &fakeTechnicianRepo{}, newFakeCacheRepo())
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, createTicketPayload())
	require.NoError(t, err)

	_, err = svc.AssignTicket(ctx, created.ID, dto.AssignTicketDTO{
		TechnicianID: 99,
		Deadline:     time.Now(),
		UpdatedBy:    1,
	})
	assertHTTPCode(t, err, 400)
}

func TestCompleteTicket(t *testing.T) {
	repo := newFakeTicketRepo()
	techRepo := &fakeTechnicianRepo{technicians: []dto.TechnicianWithUser{
		{Technician: entities.Technician{ID: 2, Active: true}},
	}}
	svc := newTicketServiceForTest(repo, techRepo, newFakeCacheRepo())
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, createTicketPayload())
	require.NoError(t, err)
	_, err = svc.AssignTicket(ctx, created.ID, dto.AssignTicketDTO{TechnicianID: 2, Deadline: time.Now().Add(time.Hour), UpdatedBy: 1})
	require.NoError(t, err)

	completed, err := svc.CompleteTicket(ctx, created.ID, dto.CompleteTicketDTO{Notes: "fixed", UpdatedBy: 3})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCompleted, completed.Status)
	assert.True(t, completed.CompletedAt.Valid)
	// Assignment survives completion.
	assert.Equal(t, uint64(2), completed.TechnicianID.Uint64)

	require.Len(t, repo.history, 3)
	assert.Equal(t, constants.StatusCompleted, repo.history[2].Status)
	assert.Equal(t, "fixed", repo.history[2].Notes.String)
	assert.Equal(t, uint64(3), repo.history[2].UpdatedBy)
}

func TestCompleteTicketRequiresNotesAndActor(t *testing.T) {
	svc := newTicketServiceForTest(newFakeTicketRepo(), &fakeTechnicianRepo{}, newFakeCacheRepo())
	ctx := context.Background()

	_, err := svc.CompleteTicket(ctx, 1, dto.CompleteTicketDTO{UpdatedBy: 3})
	assertHTTPCode(t, err, 400)
	_, err = svc.CompleteTicket(ctx, 1, dto.CompleteTicketDTO{Notes: "fixed"})
	assertHTTPCode(t, err, 400)
}

func TestUpdateTicketStatusRequiresActor(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketServiceForTest(repo, &fakeTechnicianRepo{}, newFakeCacheRepo())
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, createTicketPayload())
	require.NoError(t, err)

	status := constants.StatusCompleted
	_, err = svc.UpdateTicket(ctx, created.ID, dto.UpdateTicketDTO{Status: &status})
	assertHTTPCode(t, err, 400)

	actor := uint64(1)
	updated, err := svc.UpdateTicket(ctx, created.ID, dto.UpdateTicketDTO{Status: &status, UpdatedBy: &actor})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCompleted, updated.Status)
	require.Len(t, repo.history, 2)
	assert.Equal(t, "Status updated to completed", repo.history[1].Notes.String)
}

func TestGetTicketsFilterNormalization(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketServiceForTest(repo, &fakeTechnicianRepo{}, newFakeCacheRepo())
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := svc.CreateTicket(ctx, createTicketPayload())
		require.NoError(t, err)
	}

	// "all" sentinels behave as no filter; defaults are page 1, limit 10.
	list, err := svc.GetTickets(ctx, dto.TicketFilter{Status: "all", FacilityType: "all", Priority: "all"})
	require.NoError(t, err)
	assert.Equal(t, uint64(15), list.Total)
	assert.Len(t, list.Tickets, 10)

	list, err = svc.GetTickets(ctx, dto.TicketFilter{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(15), list.Total)
	assert.Len(t, list.Tickets, 5)

	// Page beyond the last keeps the real total.
	list, err = svc.GetTickets(ctx, dto.TicketFilter{Page: 99})
	require.NoError(t, err)
	assert.Equal(t, uint64(15), list.Total)
	assert.Empty(t, list.Tickets)
}

func TestGetTicketsInvalidFilters(t *testing.T) {
	svc := newTicketServiceForTest(newFakeTicketRepo(), &fakeTechnicianRepo{}, newFakeCacheRepo())
	ctx := context.Background()

	_, err := svc.GetTickets(ctx, dto.TicketFilter{Limit: -1})
	assertHTTPCode(t, err, 400)
	_, err = svc.GetTickets(ctx, dto.TicketFilter{Page: -1})
	assertHTTPCode(t, err, 400)
	_, err = svc.GetTickets(ctx, dto.TicketFilter{Status: "done"})
	assertHTTPCode(t, err, 400)
}

func TestFindTicketNotFound(t *testing.T) {
	svc := newTicketServiceForTest(newFakeTicketRepo(), &fakeTechnicianRepo{}, newFakeCacheRepo())

	_, err := svc.FindTicket(context.Background(), 42)
	assertHTTPCode(t, err, 404)
}

func TestMutationsInvalidateStatsCache(t *testing.T) {
	repo := newFakeTicketRepo()
	techRepo := &fakeTechnicianRepo{technicians: []dto.TechnicianWithUser{
		{Technician: entities.Technician{ID: 2, Active: true}},
	}}
	cache := newFakeCacheRepo()
	svc := newTicketServiceForTest(repo, techRepo, cache)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, createTicketPayload())
	require.NoError(t, err)
	assert.Contains(t, cache.deleted, "stats:dashboard")

	cache.deleted = nil
	_, err = svc.AssignTicket(ctx, created.ID, dto.AssignTicketDTO{TechnicianID: 2, Deadline: time.Now(), UpdatedBy: 1})
	require.NoError(t, err)
	assert.Contains(t, cache.deleted, "stats:trend")

	cache.deleted = nil
	_, err = svc.CompleteTicket(ctx, created.ID, dto.CompleteTicketDTO{Notes: "fixed", UpdatedBy: 1})
	require.NoError(t, err)
	assert.Contains(t, cache.deleted, "stats:categories")
}

func TestGetTicketHistoryOrder(t *testing.T) {
	repo := newFakeTicketRepo()
	techRepo := &fakeTechnicianRepo{technicians: []dto.TechnicianWithUser{
		{Technician: entities.Technician{ID: 2, Active: true}},
	}}
	svc := newTicketServiceForTest(repo, techRepo, newFakeCacheRepo())
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, createTicketPayload())
	require.NoError(t, err)
	_, err = svc.AssignTicket(ctx, created.ID, dto.AssignTicketDTO{TechnicianID: 2, Deadline: time.Now(), UpdatedBy: 1})
	require.NoError(t, err)
	_, err = svc.CompleteTicket(ctx, created.ID, dto.CompleteTicketDTO{Notes: "fixed", UpdatedBy: 1})
	require.NoError(t, err)

	history, err := svc.GetTicketHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, constants.StatusCompleted, history[0].Status)
	assert.Equal(t, constants.StatusInProgress, history[1].Status)
	assert.Equal(t, constants.StatusWaiting, history[2].Status)

	_, err = svc.GetTicketHistory(ctx, 999)
	assertHTTPCode(t, err, 404)
}

func assertHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, code, httpErr.Code)
}
