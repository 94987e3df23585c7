package services

import (
	"context"
	"testing"
	"time"

	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validEventInput() *models.EventInput {
	return &models.EventInput{
		Name:        "Tech Summit",
		Venue:       "Main Hall",
		Description: "Annual summit",
		Date:        "2030-05-01",
		Time:        "09:00 - 17:00",
		TicketPrice: 40,
		SeatAmount:  3,
		SeatAllocation: []models.Seat{
			{SeatNumber: "A1"}, {SeatNumber: "A2"}, {SeatNumber: "A3", Status: models.SeatReserved},
		},
	}
}

func TestEventLifecycle(t *testing.T) {
	store := newMemStore()
	es := NewEventService(store, store, store)
	ctx := context.Background()
	admin := store.seedAdmin("organiser")

	created, err := es.CreateEvent(ctx, admin.Identity(), validEventInput())
	require.NoError(t, err)
	assert.Equal(t, 3, created.AvailableSeats)
	assert.Equal(t, models.PopularityLow, created.Popularity)
	assert.Equal(t, models.StatusUpComing, created.Status)
	assert.Equal(t, models.SeatAvailable, created.SeatAllocation[0].Status)

	got, err := es.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Creator)
	assert.Equal(t, "organiser", got.Creator.Name)
	assert.Len(t, got.SeatAllocation, 3)

	list, err := es.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].SeatAllocation)
	assert.NotNil(t, list[0].Creator)

	in := validEventInput()
	in.Status = models.StatusPending
	updated, err := es.UpdateEvent(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)

	_, err = es.UpdateEvent(ctx, primitive.NewObjectID(), validEventInput())
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, es.DeleteEvent(ctx, created.ID))
	_, err = es.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, es.DeleteEvent(ctx, created.ID), models.ErrNotFound)
}

func TestEventStatusDerivedFromDate(t *testing.T) {
	store := newMemStore()
	es := NewEventService(store, store, store)
	es.now = func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) }
	admin := store.seedAdmin("organiser")

	in := validEventInput()
	in.Status = models.StatusUpComing
	created, err := es.CreateEvent(context.Background(), admin.Identity(), in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, created.Status)
	assert.Empty(t, created.StatusOverride)
}

func TestCreateEventRejectsInvalidInput(t *testing.T) {
	store := newMemStore()
	es := NewEventService(store, store, store)
	admin := store.seedAdmin("organiser")

	in := validEventInput()
	in.Name = ""
	_, err := es.CreateEvent(context.Background(), admin.Identity(), in)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	in = validEventInput()
	tooMany := 4
	in.AvailableSeats = &tooMany
	_, err = es.CreateEvent(context.Background(), admin.Identity(), in)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func twoSeatInput() *models.EventInput {
	in := validEventInput()
	in.SeatAmount = 2
	in.SeatAllocation = nil
	return in
}

func TestUpdateEventKeepsTakenSeats(t *testing.T) {
	store := newMemStore()
	es := NewEventService(store, store, store)
	bs := newBookingService(store)
	ctx := context.Background()
	admin := store.seedAdmin("organiser")

	event, err := es.CreateEvent(ctx, admin.Identity(), twoSeatInput())
	require.NoError(t, err)
	_, err = bs.BookEvent(ctx, store.seedUser("a", 20, "", "").Identity(), event.ID)
	require.NoError(t, err)

	in := twoSeatInput()
	in.Description = "new description"
	updated, err := es.UpdateEvent(ctx, event.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.AvailableSeats)
	assert.Equal(t, "new description", updated.Description)

	_, err = bs.BookEvent(ctx, store.seedUser("b", 20, "", "").Identity(), event.ID)
	require.NoError(t, err)
	_, err = bs.BookEvent(ctx, store.seedUser("c", 20, "", "").Identity(), event.ID)
	assert.ErrorIs(t, err, models.ErrNoSeats)

	tickets, err := store.ListTickets(ctx, models.TicketFilter{EventID: event.ID})
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestUpdateEventSeatBounds(t *testing.T) {
	store := newMemStore()
	es := NewEventService(store, store, store)
	bs := newBookingService(store)
	ctx := context.Background()
	admin := store.seedAdmin("organiser")

	in := validEventInput()
	in.SeatAllocation = nil
	event, err := es.CreateEvent(ctx, admin.Identity(), in)
	require.NoError(t, err)
	for _, name := range []string{"a", "b"} {
		_, err = bs.BookEvent(ctx, store.seedUser(name, 20, "", "").Identity(), event.ID)
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		seats     int
		available *int
		wantErr   bool
		wantAvail int
	}{
		{"shrink below sold", 1, nil, true, 0},
		{"reopen sold seats", 3, intPtr(3), true, 0},
		{"explicit counter below sold", 3, intPtr(2), true, 0},
		{"shrink to sold", 2, nil, false, 0},
		{"grow keeps sold", 5, nil, false, 3},
		{"explicit counter closing seats", 5, intPtr(1), false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validEventInput()
			in.SeatAllocation = nil
			in.SeatAmount = tt.seats
			in.AvailableSeats = tt.available
			updated, err := es.UpdateEvent(ctx, event.ID, in)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrSeatsTaken)
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAvail, updated.AvailableSeats)
		})
	}
}

func TestUpdateEventCountsIssuedTickets(t *testing.T) {
	store := newMemStore()
	es := NewEventService(store, store, store)
	bs := newBookingService(store)
	ctx := context.Background()
	admin := store.seedAdmin("organiser")

	event, err := es.CreateEvent(ctx, admin.Identity(), twoSeatInput())
	require.NoError(t, err)
	// issued tickets do not move the counter but still hold a seat
	user := store.seedUser("guest", 20, "", "")
	_, err = bs.IssueTicket(ctx, &IssueTicketInput{User: user.ID.Hex(), Event: event.ID.Hex()})
	require.NoError(t, err)

	updated, err := es.UpdateEvent(ctx, event.ID, twoSeatInput())
	require.NoError(t, err)
	assert.Equal(t, 1, updated.AvailableSeats)

	in := twoSeatInput()
	in.AvailableSeats = intPtr(2)
	_, err = es.UpdateEvent(ctx, event.ID, in)
	assert.ErrorIs(t, err, models.ErrSeatsTaken)
}

func TestDeleteEventForgetsSeatGauge(t *testing.T) {
	store := newMemStore()
	es := NewEventService(store, store, store)
	bs := newBookingService(store)
	ctx := context.Background()
	admin := store.seedAdmin("organiser")

	event, err := es.CreateEvent(ctx, admin.Identity(), twoSeatInput())
	require.NoError(t, err)
	_, err = bs.BookEvent(ctx, store.seedUser("a", 20, "", "").Identity(), event.ID)
	require.NoError(t, err)
	assert.True(t, hasSeatSeries(t, event.ID.Hex()))

	require.NoError(t, es.DeleteEvent(ctx, event.ID))
	assert.False(t, hasSeatSeries(t, event.ID.Hex()))
}

func hasSeatSeries(t *testing.T, eventID string) bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "event_available_seats" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "event_id" && l.GetValue() == eventID {
					return true
				}
			}
		}
	}
	return false
}

func intPtr(n int) *int { return &n }
