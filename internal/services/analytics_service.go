package services

import (
	"context"
	"sort"
	"time"

	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	dashboardUpcomingLimit      = 5
	dashboardNotificationsLimit = 10
	bundleNotificationsLimit    = 8

	ageGroupOther = "Other"
)

type Demographics struct {
	AgeGroups          map[string]int `json:"ageGroups"`
	Genders            map[string]int `json:"genders"`
	Locations          map[string]int `json:"locations"`
	Interests          map[string]int `json:"interests"`
	MostCommonAgeGroup string         `json:"mostCommonAgeGroup"`
	MostCommonGender   string         `json:"mostCommonGender"`
	MostCommonLocation string         `json:"mostCommonLocation"`
	MostCommonInterest string         `json:"mostCommonInterest"`
}

type DailyRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

type EventEngagement struct {
	EventID primitive.ObjectID `json:"eventId"`
	Name    string             `json:"name"`
	Tickets int                `json:"tickets"`
}

type DashboardStats struct {
	Events         []*models.Event     `json:"events"`
	UpcomingEvents []*models.Event     `json:"upcomingEvents"`
	LastFinished   *models.Event       `json:"lastFinished"`
	Notifications  []*models.InboxItem `json:"notifications"`
	NumEvents      int                 `json:"numEvents"`
	NumBookings    int                 `json:"numBookings"`
	Revenue        float64             `json:"revenue"`
	RevenueByDay   []DailyRevenue      `json:"revenueByDay"`
	Engagement     []EventEngagement   `json:"engagement"`
}

type OverallAnalytics struct {
	TotalEvents  int           `json:"totalEvents"`
	TotalUsers   int           `json:"totalUsers"`
	TotalTickets int           `json:"totalTickets"`
	TotalRevenue float64       `json:"totalRevenue"`
	Demographics *Demographics `json:"demographics"`
}

type EventInsights struct {
	Event          *models.Event `json:"event"`
	TotalAttendees int           `json:"totalAttendees"`
	Revenue        float64       `json:"revenue"`
	Demographics   *Demographics `json:"demographics"`
}

type TicketStats struct {
	TotalTickets   int            `json:"totalTickets"`
	TicketsByEvent map[string]int `json:"ticketsByEvent"`
}

// AdminDashboardData bundles what the admin dashboard renders in one payload.
type AdminDashboardData struct {
	Events         []*models.Event         `json:"events"`
	Users          []*models.PersonSummary `json:"users"`
	TicketStats    TicketStats             `json:"ticketStats"`
	UpcomingEvents []*models.Event         `json:"upcomingEvents"`
	LastFinished   *models.Event           `json:"lastFinished"`
	Notifications  []*models.InboxItem     `json:"notifications"`
}

type RawData struct {
	Events  []*models.Event      `json:"events"`
	Users   []*models.User       `json:"users"`
	Tickets []*models.TicketView `json:"tickets"`
}

type EventRawData struct {
	Event     *models.Event        `json:"event"`
	Tickets   []*models.TicketView `json:"tickets"`
	Attendees []*models.User       `json:"attendees"`
}

type AnalyticsService struct {
	events   models.EventRepo
	tickets  models.TicketRepo
	users    models.UserRepo
	admins   models.AdminRepo
	messages *MessageService
	now      func() time.Time
}

func NewAnalyticsService(events models.EventRepo, tickets models.TicketRepo, users models.UserRepo, admins models.AdminRepo, messages *MessageService) *AnalyticsService {
	return &AnalyticsService{
		events:   events,
		tickets:  tickets,
		users:    users,
		admins:   admins,
		messages: messages,
		now:      time.Now,
	}
}

func (as *AnalyticsService) Dashboard(ctx context.Context, caller *models.Identity) (*DashboardStats, error) {
	events, err := as.listEvents(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := as.tickets.ListTickets(ctx, models.TicketFilter{})
	if err != nil {
		return nil, err
	}
	notifications, err := as.messages.Inbox(ctx, caller, dashboardNotificationsLimit)
	if err != nil {
		return nil, err
	}

	upcoming, finished := PartitionEvents(events, as.now())
	stats := &DashboardStats{
		Events:         events,
		UpcomingEvents: limitEvents(upcoming, dashboardUpcomingLimit),
		Notifications:  notifications,
		NumEvents:      len(events),
		RevenueByDay:   RevenueByDay(events),
		Engagement:     Engagement(events, tickets),
	}
	if len(finished) > 0 {
		stats.LastFinished = finished[0]
	}

	revenue := decimal.Zero
	for _, e := range events {
		sold := e.SoldSeats()
		stats.NumBookings += sold
		revenue = revenue.Add(decimal.NewFromFloat(e.TicketPrice).Mul(decimal.NewFromInt(int64(sold))))
	}
	stats.Revenue = revenue.InexactFloat64()
	return stats, nil
}

func (as *AnalyticsService) Overall(ctx context.Context) (*OverallAnalytics, error) {
	events, err := as.events.ListEvents(ctx, false)
	if err != nil {
		return nil, err
	}
	users, err := as.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := as.tickets.ListTickets(ctx, models.TicketFilter{})
	if err != nil {
		return nil, err
	}

	return &OverallAnalytics{
		TotalEvents:  len(events),
		TotalUsers:   len(users),
		TotalTickets: len(activeTickets(tickets)),
		TotalRevenue: TicketRevenue(tickets, events).InexactFloat64(),
		Demographics: BuildDemographics(users),
	}, nil
}

func (as *AnalyticsService) EventInsights(ctx context.Context, eventID primitive.ObjectID) (*EventInsights, error) {
	event, err := as.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	tickets, err := as.tickets.ListTickets(ctx, models.TicketFilter{EventID: eventID})
	if err != nil {
		return nil, err
	}
	attendees, err := as.attendees(ctx, activeTickets(tickets))
	if err != nil {
		return nil, err
	}

	return &EventInsights{
		Event:          event.Resolve(as.now()),
		TotalAttendees: len(attendees),
		Revenue:        TicketRevenue(tickets, []*models.Event{event}).InexactFloat64(),
		Demographics:   BuildDemographics(attendees),
	}, nil
}

func (as *AnalyticsService) AdminDashboardData(ctx context.Context, caller *models.Identity) (*AdminDashboardData, error) {
	events, err := as.listEvents(ctx)
	if err != nil {
		return nil, err
	}
	users, err := as.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := as.tickets.ListTickets(ctx, models.TicketFilter{})
	if err != nil {
		return nil, err
	}
	notifications, err := as.messages.Inbox(ctx, caller, bundleNotificationsLimit)
	if err != nil {
		return nil, err
	}

	data := &AdminDashboardData{
		Events:        events,
		Users:         make([]*models.PersonSummary, 0, len(users)),
		Notifications: notifications,
		TicketStats: TicketStats{
			TotalTickets:   len(tickets),
			TicketsByEvent: map[string]int{},
		},
	}
	for _, u := range users {
		data.Users = append(data.Users, u.Summary())
	}
	names := make(map[primitive.ObjectID]string, len(events))
	for _, e := range events {
		names[e.ID] = e.Name
	}
	for _, t := range tickets {
		if name, ok := names[t.Event]; ok {
			data.TicketStats.TicketsByEvent[name]++
		}
	}

	upcoming, finished := PartitionEvents(events, as.now())
	data.UpcomingEvents = limitEvents(upcoming, dashboardUpcomingLimit)
	if len(finished) > 0 {
		// the listing strips seat maps; the last finished event is shown with them
		full, err := as.events.GetEventByID(ctx, finished[0].ID)
		if err != nil {
			return nil, err
		}
		data.LastFinished = full.Resolve(as.now())
	}
	return data, nil
}

func (as *AnalyticsService) RawData(ctx context.Context) (*RawData, error) {
	events, err := as.listEvents(ctx)
	if err != nil {
		return nil, err
	}
	users, err := as.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := as.tickets.ListTickets(ctx, models.TicketFilter{})
	if err != nil {
		return nil, err
	}
	views, err := newLookup(as.users, as.admins, as.events).ticketViews(ctx, tickets)
	if err != nil {
		return nil, err
	}
	return &RawData{Events: events, Users: users, Tickets: views}, nil
}

func (as *AnalyticsService) EventRawData(ctx context.Context, eventID primitive.ObjectID) (*EventRawData, error) {
	event, err := as.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	tickets, err := as.tickets.ListTickets(ctx, models.TicketFilter{EventID: eventID})
	if err != nil {
		return nil, err
	}
	views, err := newLookup(as.users, as.admins, as.events).ticketViews(ctx, tickets)
	if err != nil {
		return nil, err
	}
	attendees, err := as.attendees(ctx, tickets)
	if err != nil {
		return nil, err
	}
	return &EventRawData{Event: event.Resolve(as.now()), Tickets: views, Attendees: attendees}, nil
}

func (as *AnalyticsService) listEvents(ctx context.Context) ([]*models.Event, error) {
	events, err := as.events.ListEvents(ctx, false)
	if err != nil {
		return nil, err
	}
	now := as.now()
	for _, e := range events {
		e.Resolve(now)
	}
	return events, nil
}

// attendees resolves the distinct users holding the given tickets. Tickets
// whose user no longer exists are skipped.
func (as *AnalyticsService) attendees(ctx context.Context, tickets []*models.Ticket) ([]*models.User, error) {
	l := newLookup(as.users, nil, nil)
	seen := map[primitive.ObjectID]bool{}
	out := []*models.User{}
	for _, t := range tickets {
		if seen[t.User] {
			continue
		}
		seen[t.User] = true
		u, err := l.user(ctx, t.User)
		if err != nil {
			return nil, err
		}
		if u != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func AgeGroup(age int) string {
	switch {
	case age >= 18 && age <= 25:
		return "18-25"
	case age >= 26 && age <= 35:
		return "26-35"
	case age >= 36 && age <= 50:
		return "36-50"
	}
	return ageGroupOther
}

// BuildDemographics counts users by age group, gender, location and
// interest. Users without an age are left out of the age groups and blank
// values are not counted.
func BuildDemographics(users []*models.User) *Demographics {
	d := &Demographics{
		AgeGroups: map[string]int{},
		Genders:   map[string]int{},
		Locations: map[string]int{},
		Interests: map[string]int{},
	}
	for _, u := range users {
		if u.Age > 0 {
			d.AgeGroups[AgeGroup(u.Age)]++
		}
		if u.Gender != "" {
			d.Genders[u.Gender]++
		}
		if u.Location != "" {
			d.Locations[u.Location]++
		}
		for _, interest := range u.Interests {
			if interest != "" {
				d.Interests[interest]++
			}
		}
	}
	d.MostCommonAgeGroup = MostCommon(d.AgeGroups)
	d.MostCommonGender = MostCommon(d.Genders)
	d.MostCommonLocation = MostCommon(d.Locations)
	d.MostCommonInterest = MostCommon(d.Interests)
	return d
}

// MostCommon returns the key with the highest count, breaking ties by the
// lexically smallest key. An empty map yields "".
func MostCommon(counts map[string]int) string {
	best, bestCount := "", 0
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best, bestCount = k, n
		}
	}
	return best
}

// PartitionEvents splits resolved events into upcoming (soonest first) and
// finished (most recent first). Pending events in the future are in neither.
func PartitionEvents(events []*models.Event, now time.Time) (upcoming, finished []*models.Event) {
	for _, e := range events {
		switch {
		case e.Status == models.StatusUpComing && e.Date.After(now):
			upcoming = append(upcoming, e)
		case e.Status == models.StatusClosed || e.Date.Before(now):
			finished = append(finished, e)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	sort.SliceStable(finished, func(i, j int) bool { return finished[i].Date.After(finished[j].Date) })
	return upcoming, finished
}

// RevenueByDay sums sold seats times price per event date, oldest day first.
func RevenueByDay(events []*models.Event) []DailyRevenue {
	byDay := map[string]decimal.Decimal{}
	for _, e := range events {
		day := e.Date.UTC().Format("2006-01-02")
		amount := decimal.NewFromFloat(e.TicketPrice).Mul(decimal.NewFromInt(int64(e.SoldSeats())))
		byDay[day] = byDay[day].Add(amount)
	}
	out := make([]DailyRevenue, 0, len(byDay))
	for day, amount := range byDay {
		out = append(out, DailyRevenue{Day: day, Revenue: amount.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Engagement counts tickets per event, busiest first.
func Engagement(events []*models.Event, tickets []*models.Ticket) []EventEngagement {
	counts := map[primitive.ObjectID]int{}
	for _, t := range tickets {
		counts[t.Event]++
	}
	out := make([]EventEngagement, 0, len(events))
	for _, e := range events {
		out = append(out, EventEngagement{EventID: e.ID, Name: e.Name, Tickets: counts[e.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tickets != out[j].Tickets {
			return out[i].Tickets > out[j].Tickets
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TicketRevenue prices every non-cancelled ticket at its event's current
// ticket price. Tickets of deleted events count for nothing.
func TicketRevenue(tickets []*models.Ticket, events []*models.Event) decimal.Decimal {
	prices := make(map[primitive.ObjectID]decimal.Decimal, len(events))
	for _, e := range events {
		prices[e.ID] = decimal.NewFromFloat(e.TicketPrice)
	}
	total := decimal.Zero
	for _, t := range activeTickets(tickets) {
		if price, ok := prices[t.Event]; ok {
			total = total.Add(price)
		}
	}
	return total
}

func activeTickets(tickets []*models.Ticket) []*models.Ticket {
	out := make([]*models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Status != models.TicketCancelled {
			out = append(out, t)
		}
	}
	return out
}

func limitEvents(events []*models.Event, n int) []*models.Event {
	if len(events) > n {
		return events[:n]
	}
	return events
}
