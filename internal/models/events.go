package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventStatus string

const (
	StatusUpComing EventStatus = "Up-Coming"
	StatusPending  EventStatus = "Pending"
	StatusClosed   EventStatus = "Closed"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "Available"
	SeatReserved  SeatStatus = "Reserved"
	SeatPaid      SeatStatus = "Paid"
)

type Popularity string

const (
	PopularityLow    Popularity = "Low"
	PopularityMedium Popularity = "Medium"
	PopularityHigh   Popularity = "High"
)

type Seat struct {
	SeatNumber string     `bson:"seatNumber" json:"seatNumber" validate:"required"`
	Status     SeatStatus `bson:"status" json:"status" validate:"omitempty,oneof=Available Reserved Paid"`
}

type Event struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name               string             `bson:"name" json:"name"`
	Venue              string             `bson:"venue" json:"venue"`
	Description        string             `bson:"description" json:"description,omitempty"`
	Date               time.Time          `bson:"date" json:"date"`
	Time               string             `bson:"time" json:"time"` // e.g. "18:00 - 21:00"
	TicketPrice        float64            `bson:"ticketPrice" json:"ticketPrice"`
	SeatAmount         int                `bson:"seatAmount" json:"seatAmount"`
	AvailableSeats     int                `bson:"availableSeats" json:"availableSeats"`
	Popularity         Popularity         `bson:"popularity" json:"popularity"`
	SeatAllocation     []Seat             `bson:"seatAllocation,omitempty" json:"seatAllocation,omitempty"`
	Tags               []string           `bson:"tags" json:"tags"`
	ExpectedAttendance int                `bson:"expectedAttendance,omitempty" json:"expectedAttendance,omitempty"`
	CreatedBy          primitive.ObjectID `bson:"createdBy" json:"-"`
	// Only "Pending" is ever persisted; everything else is derived from the date.
	StatusOverride EventStatus `bson:"status,omitempty" json:"-"`
	CreatedAt      time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time   `bson:"updatedAt" json:"updatedAt"`

	Status  EventStatus    `bson:"-" json:"status"`
	Creator *PersonSummary `bson:"-" json:"createdBy,omitempty"`
}

// ResolveStatus derives the display status of an event. A pinned "Pending"
// always wins; otherwise an event dated before now is closed.
func ResolveStatus(date time.Time, override EventStatus, now time.Time) EventStatus {
	if override == StatusPending {
		return StatusPending
	}
	if date.Before(now) {
		return StatusClosed
	}
	return StatusUpComing
}

func (e *Event) Resolve(now time.Time) *Event {
	e.Status = ResolveStatus(e.Date, e.StatusOverride, now)
	return e
}

func (e *Event) SoldSeats() int {
	return e.SeatAmount - e.AvailableSeats
}

// EventSummary is the projection embedded into tickets and bookings.
type EventSummary struct {
	ID          primitive.ObjectID `json:"_id"`
	Name        string             `json:"name"`
	Date        time.Time          `json:"date"`
	Venue       string             `json:"venue,omitempty"`
	TicketPrice float64            `json:"ticketPrice"`
}

func (e *Event) Summary() *EventSummary {
	return &EventSummary{ID: e.ID, Name: e.Name, Date: e.Date, Venue: e.Venue, TicketPrice: e.TicketPrice}
}

// EventInput is the body accepted when creating or updating an event.
type EventInput struct {
	Name               string      `json:"name" validate:"required"`
	Venue              string      `json:"venue" validate:"required"`
	Description        string      `json:"description" validate:"required"`
	Date               string      `json:"date" validate:"required"`
	Time               string      `json:"time" validate:"required"`
	TicketPrice        float64     `json:"ticketPrice" validate:"gte=0"`
	SeatAmount         int         `json:"seatAmount" validate:"gte=0"`
	AvailableSeats     *int        `json:"availableSeats" validate:"omitempty,gte=0"`
	Popularity         Popularity  `json:"popularity" validate:"omitempty,oneof=Low Medium High"`
	SeatAllocation     []Seat      `json:"seatAllocation" validate:"dive"`
	Tags               []string    `json:"tags"`
	ExpectedAttendance int         `json:"expectedAttendance" validate:"gte=0"`
	Status             EventStatus `json:"status" validate:"omitempty,oneof=Up-Coming Pending Closed"`
}

var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", ErrInvalidInput, s)
}

// ToEvent validates the input and builds the event it describes.
func (in *EventInput) ToEvent() (*Event, error) {
	if err := Validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	date, err := ParseEventDate(in.Date)
	if err != nil {
		return nil, err
	}

	available := in.SeatAmount
	if in.AvailableSeats != nil {
		available = *in.AvailableSeats
	}
	if available > in.SeatAmount {
		return nil, fmt.Errorf("%w: availableSeats cannot exceed seatAmount", ErrInvalidInput)
	}

	popularity := in.Popularity
	if popularity == "" {
		popularity = PopularityLow
	}
	seats := make([]Seat, 0, len(in.SeatAllocation))
	for _, s := range in.SeatAllocation {
		if s.Status == "" {
			s.Status = SeatAvailable
		}
		seats = append(seats, s)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	ev := &Event{
		Name:               strings.TrimSpace(in.Name),
		Venue:              strings.TrimSpace(in.Venue),
		Description:        in.Description,
		Date:               date,
		Time:               in.Time,
		TicketPrice:        in.TicketPrice,
		SeatAmount:         in.SeatAmount,
		AvailableSeats:     available,
		Popularity:         popularity,
		SeatAllocation:     seats,
		Tags:               tags,
		ExpectedAttendance: in.ExpectedAttendance,
	}
	if in.Status == StatusPending {
		ev.StatusOverride = StatusPending
	}
	return ev, nil
}
