package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/joshua-takyi/eventx/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory stand-in for MongodbRepo. It enforces the same
// unique indexes and conditional seat updates as the Mongo implementation.
type memStore struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*models.User
	admins   map[primitive.ObjectID]*models.Admin
	events   map[primitive.ObjectID]*models.Event
	tickets  map[primitive.ObjectID]*models.Ticket
	messages []*models.Message
	clock    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[primitive.ObjectID]*models.User{},
		admins:  map[primitive.ObjectID]*models.Admin{},
		events:  map[primitive.ObjectID]*models.Event{},
		tickets: map[primitive.ObjectID]*models.Ticket{},
		clock:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing timestamps so ordering is deterministic.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *memStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.BeforeCreate()
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("user %w", models.ErrAlreadyExists)
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return user, nil
}

func (s *memStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", models.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %w", models.ErrNotFound)
}

func (s *memStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.User{}
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) UpdateUser(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", models.ErrNotFound)
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "password":
			u.Password = v.(string)
		case "age":
			u.Age = v.(int)
		case "gender":
			u.Gender = v.(string)
		case "location":
			u.Location = v.(string)
		case "interests":
			u.Interests = v.([]string)
		case "image":
			u.Image = v.(string)
		}
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %w", models.ErrNotFound)
	}
	delete(s.users, id)
	return nil
}

func (s *memStore) CreateAdmin(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin.BeforeCreate()
	for _, a := range s.admins {
		if a.Email == admin.Email {
			return nil, fmt.Errorf("admin %w", models.ErrAlreadyExists)
		}
	}
	cp := *admin
	s.admins[admin.ID] = &cp
	return admin, nil
}

func (s *memStore) GetAdminByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, fmt.Errorf("admin %w", models.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, a := range s.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("admin %w", models.ErrNotFound)
}

func (s *memStore) ListAdmins(ctx context.Context) ([]*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Admin{}
	for _, a := range s.admins {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) UpdateAdmin(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, fmt.Errorf("admin %w", models.ErrNotFound)
	}
	for k, v := range fields {
		switch k {
		case "name":
			a.Name = v.(string)
		case "email":
			a.Email = v.(string)
		case "password":
			a.Password = v.(string)
		case "image":
			a.Image = v.(string)
		}
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) DeleteAdmin(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[id]; !ok {
		return fmt.Errorf("admin %w", models.ErrNotFound)
	}
	delete(s.admins, id)
	return nil
}

func (s *memStore) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.BeforeCreate()
	cp := *event
	s.events[event.ID] = &cp
	return event, nil
}

func (s *memStore) GetEventByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event %w", models.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (s *memStore) ListEvents(ctx context.Context, withSeats bool) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Event{}
	for _, e := range s.events {
		cp := *e
		if !withSeats {
			cp.SeatAllocation = nil
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *memStore) UpdateEvent(ctx context.Context, id primitive.ObjectID, event *models.Event, guard models.SeatGuard) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event %w", models.ErrNotFound)
	}
	taken := current.SeatAmount - current.AvailableSeats
	if guard.MinTaken > taken {
		taken = guard.MinTaken
	}
	updated := *event
	if guard.KeepTaken {
		updated.AvailableSeats = event.SeatAmount - taken
	}
	if updated.AvailableSeats < 0 || updated.SeatAmount-updated.AvailableSeats < taken {
		return nil, models.ErrSeatsTaken
	}
	updated.ID = id
	updated.CreatedBy = current.CreatedBy
	updated.CreatedAt = current.CreatedAt
	s.events[id] = &updated
	cp := updated
	return &cp, nil
}

func (s *memStore) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event %w", models.ErrNotFound)
	}
	delete(s.events, id)
	return nil
}

func (s *memStore) ReserveSeat(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok || e.AvailableSeats <= 0 {
		return models.ErrNoSeats
	}
	e.AvailableSeats--
	return nil
}

func (s *memStore) ReleaseSeat(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[id]; ok && e.AvailableSeats < e.SeatAmount {
		e.AvailableSeats++
	}
	return nil
}

func (s *memStore) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket.BeforeCreate()
	for _, t := range s.tickets {
		if t.User == ticket.User && t.Event == ticket.Event {
			return nil, models.ErrAlreadyBooked
		}
	}
	ticket.Timestamp = s.tick()
	cp := *ticket
	s.tickets[ticket.ID] = &cp
	return ticket, nil
}

func (s *memStore) GetTicketByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %w", models.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) FindTicket(ctx context.Context, userID, eventID primitive.ObjectID) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.User == userID && t.Event == eventID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("ticket %w", models.ErrNotFound)
}

func (s *memStore) ListTickets(ctx context.Context, filter models.TicketFilter) ([]*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Ticket{}
	for _, t := range s.tickets {
		if !filter.UserID.IsZero() && t.User != filter.UserID {
			continue
		}
		if !filter.EventID.IsZero() && t.Event != filter.EventID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *memStore) SetTicketStatus(ctx context.Context, id primitive.ObjectID, from []models.TicketStatus, next models.TicketStatus) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if ok {
		for _, st := range from {
			if t.Status == st {
				t.Status = next
				cp := *t
				return &cp, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: ticket cannot move to %s", models.ErrInvalidInput, next)
}

func (s *memStore) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.BeforeCreate()
	msg.CreatedAt = s.tick()
	cp := *msg
	s.messages = append(s.messages, &cp)
	return msg, nil
}

func (s *memStore) ListThread(ctx context.Context, a, b primitive.ObjectID) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Message{}
	for _, m := range s.messages {
		if (m.From == a && m.To == b) || (m.From == b && m.To == a) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) ListInbox(ctx context.Context, id primitive.ObjectID, limit int64) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Message{}
	for _, m := range s.messages {
		if m.To == id {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeImages records uploads and deletions instead of talking to Cloudinary.
type fakeImages struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (f *fakeImages) Upload(ctx context.Context, file io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	url := fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/v1/eventx-studio/img%d.png", len(f.uploaded)+1)
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeImages) Delete(ctx context.Context, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, imageURL)
	return nil
}

// seedUser stores a user directly, bypassing password hashing.
func (s *memStore) seedUser(name string, age int, gender, location string, interests ...string) *models.User {
	u := &models.User{
		Name:      name,
		Email:     fmt.Sprintf("%s@example.com", name),
		Age:       age,
		Gender:    gender,
		Location:  location,
		Interests: interests,
	}
	_, _ = s.CreateUser(context.Background(), u)
	return u
}

func (s *memStore) seedAdmin(name string) *models.Admin {
	a := &models.Admin{Name: name, Email: fmt.Sprintf("%s@example.com", name)}
	_, _ = s.CreateAdmin(context.Background(), a)
	return a
}

func (s *memStore) seedEvent(name string, date time.Time, price float64, seats int) *models.Event {
	e := &models.Event{
		Name:           name,
		Venue:          "Hall A",
		Date:           date,
		TicketPrice:    price,
		SeatAmount:     seats,
		AvailableSeats: seats,
		Popularity:     models.PopularityLow,
		Tags:           []string{},
	}
	_, _ = s.CreateEvent(context.Background(), e)
	return e
}

func (s *memStore) availableSeats(id primitive.ObjectID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id].AvailableSeats
}
