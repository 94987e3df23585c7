package services

import (
	"context"
	"errors"

	"github.com/joshua-takyi/eventx/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// lookup memoizes id -> document reads for the lifetime of one request so
// a listing touching the same user or event many times reads it once.
// Missing documents resolve to nil without an error.
type lookup struct {
	users  models.UserRepo
	admins models.AdminRepo
	events models.EventRepo

	userCache  map[primitive.ObjectID]*models.User
	adminCache map[primitive.ObjectID]*models.Admin
	eventCache map[primitive.ObjectID]*models.Event
}

func newLookup(users models.UserRepo, admins models.AdminRepo, events models.EventRepo) *lookup {
	return &lookup{
		users:      users,
		admins:     admins,
		events:     events,
		userCache:  map[primitive.ObjectID]*models.User{},
		adminCache: map[primitive.ObjectID]*models.Admin{},
		eventCache: map[primitive.ObjectID]*models.Event{},
	}
}

func (l *lookup) user(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := l.userCache[id]; ok {
		return u, nil
	}
	u, err := l.users.GetUserByID(ctx, id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	l.userCache[id] = u
	return u, nil
}

func (l *lookup) admin(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	if a, ok := l.adminCache[id]; ok {
		return a, nil
	}
	a, err := l.admins.GetAdminByID(ctx, id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	l.adminCache[id] = a
	return a, nil
}

func (l *lookup) event(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	if e, ok := l.eventCache[id]; ok {
		return e, nil
	}
	e, err := l.events.GetEventByID(ctx, id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	l.eventCache[id] = e
	return e, nil
}

// person resolves a polymorphic reference by dispatching on its kind.
func (l *lookup) person(ctx context.Context, ref models.IdentityRef) (*models.PersonSummary, error) {
	switch ref.Kind {
	case models.KindAdmin:
		a, err := l.admin(ctx, ref.ID)
		if err != nil || a == nil {
			return nil, err
		}
		return a.Summary(), nil
	case models.KindUser:
		u, err := l.user(ctx, ref.ID)
		if err != nil || u == nil {
			return nil, err
		}
		return u.Summary(), nil
	}
	return nil, nil
}

func (l *lookup) ticketView(ctx context.Context, t *models.Ticket) (*models.TicketView, error) {
	view := &models.TicketView{
		ID:        t.ID,
		UserID:    t.User,
		EventID:   t.Event,
		QRCode:    t.QRCode,
		Status:    t.Status,
		Timestamp: t.Timestamp,
	}
	u, err := l.user(ctx, t.User)
	if err != nil {
		return nil, err
	}
	if u != nil {
		view.User = u.Summary()
	} else if l.admins != nil {
		// admins may book too
		a, err := l.admin(ctx, t.User)
		if err != nil {
			return nil, err
		}
		if a != nil {
			view.User = a.Summary()
		}
	}
	e, err := l.event(ctx, t.Event)
	if err != nil {
		return nil, err
	}
	if e != nil {
		view.Event = e.Summary()
	}
	return view, nil
}

func (l *lookup) ticketViews(ctx context.Context, tickets []*models.Ticket) ([]*models.TicketView, error) {
	views := make([]*models.TicketView, 0, len(tickets))
	for _, t := range tickets {
		v, err := l.ticketView(ctx, t)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
