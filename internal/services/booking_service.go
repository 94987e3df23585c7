package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshua-takyi/eventx/internal/helpers"
	"github.com/joshua-takyi/eventx/internal/monitoring"
	"github.com/joshua-takyi/eventx/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueTicketInput is the body of an admin-issued ticket.
type IssueTicketInput struct {
	User      string              `json:"user" validate:"required"`
	Event     string              `json:"event" validate:"required"`
	Status    models.TicketStatus `json:"status" validate:"omitempty,oneof=Valid CheckedIn Cancelled"`
	Timestamp *time.Time          `json:"timestamp"`
}

type BookingService struct {
	events        models.EventRepo
	tickets       models.TicketRepo
	users         models.UserRepo
	admins        models.AdminRepo
	ticketBaseURL string
	logger        *slog.Logger
}

func NewBookingService(events models.EventRepo, tickets models.TicketRepo, users models.UserRepo, admins models.AdminRepo, ticketBaseURL string, logger *slog.Logger) *BookingService {
	return &BookingService{
		events:        events,
		tickets:       tickets,
		users:         users,
		admins:        admins,
		ticketBaseURL: ticketBaseURL,
		logger:        logger,
	}
}

// BookEvent books one seat of an event for the caller. The seat is taken
// with a single conditional decrement, so concurrent bookings can never
// oversell; if the ticket cannot be stored afterwards the seat is put back.
func (bs *BookingService) BookEvent(ctx context.Context, caller *models.Identity, eventID primitive.ObjectID) (*models.Ticket, error) {
	if _, err := bs.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}

	if _, err := bs.tickets.FindTicket(ctx, caller.ID, eventID); err == nil {
		monitoring.TrackBooking(monitoring.OutcomeAlreadyBooked)
		return nil, models.ErrAlreadyBooked
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if err := bs.events.ReserveSeat(ctx, eventID); err != nil {
		if errors.Is(err, models.ErrNoSeats) {
			monitoring.TrackBooking(monitoring.OutcomeNoSeats)
		}
		return nil, err
	}

	ticket, err := bs.newTicket(caller.ID, eventID)
	if err == nil {
		ticket, err = bs.tickets.CreateTicket(ctx, ticket)
	}
	if err != nil {
		if relErr := bs.events.ReleaseSeat(ctx, eventID); relErr != nil {
			bs.logger.Error("failed to release seat after booking error",
				"event_id", eventID.Hex(), "error", relErr)
		}
		if errors.Is(err, models.ErrAlreadyBooked) {
			monitoring.TrackBooking(monitoring.OutcomeAlreadyBooked)
		} else {
			monitoring.TrackBooking(monitoring.OutcomeFailed)
		}
		return nil, err
	}

	monitoring.TrackBooking(monitoring.OutcomeBooked)
	bs.trackSeats(ctx, eventID)
	return ticket, nil
}

// IssueTicket stores a ticket on behalf of an admin. It does not consume a
// seat; the unique (user, event) index still rejects a second ticket.
func (bs *BookingService) IssueTicket(ctx context.Context, in *IssueTicketInput) (*models.Ticket, error) {
	if err := models.Validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: user and event are required", models.ErrInvalidInput)
	}
	userID, err := models.ParseID(in.User)
	if err != nil {
		return nil, err
	}
	eventID, err := models.ParseID(in.Event)
	if err != nil {
		return nil, err
	}
	if _, err := bs.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}

	ticket, err := bs.newTicket(userID, eventID)
	if err != nil {
		return nil, err
	}
	if in.Status != "" {
		ticket.Status = in.Status
	}
	if in.Timestamp != nil {
		ticket.Timestamp = *in.Timestamp
	}

	created, err := bs.tickets.CreateTicket(ctx, ticket)
	if err != nil {
		return nil, err
	}
	monitoring.TrackBooking(monitoring.OutcomeIssued)
	return created, nil
}

func (bs *BookingService) newTicket(userID, eventID primitive.ObjectID) (*models.Ticket, error) {
	id := primitive.NewObjectID()
	qr, err := helpers.TicketQRCode(bs.ticketBaseURL, id.Hex())
	if err != nil {
		return nil, err
	}
	return &models.Ticket{
		ID:     id,
		User:   userID,
		Event:  eventID,
		QRCode: qr,
		Status: models.TicketValid,
	}, nil
}

func (bs *BookingService) MyTickets(ctx context.Context, caller *models.Identity) ([]*models.TicketView, error) {
	return bs.listViews(ctx, models.TicketFilter{UserID: caller.ID})
}

func (bs *BookingService) AllTickets(ctx context.Context) ([]*models.TicketView, error) {
	return bs.listViews(ctx, models.TicketFilter{})
}

func (bs *BookingService) GetTicket(ctx context.Context, id primitive.ObjectID) (*models.TicketView, error) {
	ticket, err := bs.tickets.GetTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return bs.lookup().ticketView(ctx, ticket)
}

func (bs *BookingService) EventBookings(ctx context.Context, eventID primitive.ObjectID) ([]*models.Booking, error) {
	views, err := bs.listViews(ctx, models.TicketFilter{EventID: eventID})
	if err != nil {
		return nil, err
	}
	return bookings(views), nil
}

// UserBookings lists a user's bookings. Users may only read their own.
func (bs *BookingService) UserBookings(ctx context.Context, caller *models.Identity, userID primitive.ObjectID) ([]*models.Booking, error) {
	if !caller.IsAdmin() && !caller.IsOwner(userID) {
		return nil, fmt.Errorf("%w: you can only view your own bookings", models.ErrForbidden)
	}
	views, err := bs.listViews(ctx, models.TicketFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return bookings(views), nil
}

// SetTicketStatus checks a ticket in or cancels it. Only Valid tickets
// move; cancelling gives the seat back.
func (bs *BookingService) SetTicketStatus(ctx context.Context, id primitive.ObjectID, next models.TicketStatus) (*models.Ticket, error) {
	if next != models.TicketCheckedIn && next != models.TicketCancelled {
		return nil, fmt.Errorf("%w: status must be CheckedIn or Cancelled", models.ErrInvalidInput)
	}
	if _, err := bs.tickets.GetTicketByID(ctx, id); err != nil {
		return nil, err
	}
	ticket, err := bs.tickets.SetTicketStatus(ctx, id, []models.TicketStatus{models.TicketValid}, next)
	if err != nil {
		return nil, err
	}
	if next == models.TicketCancelled {
		if err := bs.events.ReleaseSeat(ctx, ticket.Event); err != nil {
			return nil, err
		}
		bs.trackSeats(ctx, ticket.Event)
	}
	return ticket, nil
}

func (bs *BookingService) listViews(ctx context.Context, filter models.TicketFilter) ([]*models.TicketView, error) {
	tickets, err := bs.tickets.ListTickets(ctx, filter)
	if err != nil {
		return nil, err
	}
	return bs.lookup().ticketViews(ctx, tickets)
}

func (bs *BookingService) lookup() *lookup {
	return newLookup(bs.users, bs.admins, bs.events)
}

func (bs *BookingService) trackSeats(ctx context.Context, eventID primitive.ObjectID) {
	event, err := bs.events.GetEventByID(ctx, eventID)
	if err != nil {
		return
	}
	monitoring.TrackSeats(eventID.Hex(), event.AvailableSeats)
}

func bookings(views []*models.TicketView) []*models.Booking {
	out := make([]*models.Booking, 0, len(views))
	for _, v := range views {
		out = append(out, v.Booking())
	}
	return out
}
