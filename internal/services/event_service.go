package services

import (
	"context"
	"time"

	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/monitoring"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventService struct {
	events  models.EventRepo
	tickets models.TicketRepo
	admins  models.AdminRepo
	now     func() time.Time
}

func NewEventService(events models.EventRepo, tickets models.TicketRepo, admins models.AdminRepo) *EventService {
	return &EventService{
		events:  events,
		tickets: tickets,
		admins:  admins,
		now:     time.Now,
	}
}

func (es *EventService) CreateEvent(ctx context.Context, creator *models.Identity, in *models.EventInput) (*models.Event, error) {
	event, err := in.ToEvent()
	if err != nil {
		return nil, err
	}
	event.CreatedBy = creator.ID

	created, err := es.events.CreateEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	return created.Resolve(es.now()), nil
}

// ListEvents returns every event without its seat map, creator populated.
func (es *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	events, err := es.events.ListEvents(ctx, false)
	if err != nil {
		return nil, err
	}
	if err := es.populate(ctx, events...); err != nil {
		return nil, err
	}
	return events, nil
}

func (es *EventService) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, err := es.events.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := es.populate(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent replaces an event's editable fields. Seats already taken
// stay taken: an omitted availableSeats is recomputed from the stored
// counter, and no update may leave fewer taken seats than live tickets.
func (es *EventService) UpdateEvent(ctx context.Context, id primitive.ObjectID, in *models.EventInput) (*models.Event, error) {
	event, err := in.ToEvent()
	if err != nil {
		return nil, err
	}
	tickets, err := es.tickets.ListTickets(ctx, models.TicketFilter{EventID: id})
	if err != nil {
		return nil, err
	}
	guard := models.SeatGuard{
		KeepTaken: in.AvailableSeats == nil,
		MinTaken:  len(activeTickets(tickets)),
	}
	updated, err := es.events.UpdateEvent(ctx, id, event, guard)
	if err != nil {
		return nil, err
	}
	return updated.Resolve(es.now()), nil
}

func (es *EventService) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	if err := es.events.DeleteEvent(ctx, id); err != nil {
		return err
	}
	monitoring.ForgetEvent(id.Hex())
	return nil
}

func (es *EventService) populate(ctx context.Context, events ...*models.Event) error {
	now := es.now()
	l := newLookup(nil, es.admins, nil)
	for _, e := range events {
		e.Resolve(now)
		if e.CreatedBy.IsZero() {
			continue
		}
		admin, err := l.admin(ctx, e.CreatedBy)
		if err != nil {
			return err
		}
		if admin != nil {
			e.Creator = admin.Summary()
		}
	}
	return nil
}
