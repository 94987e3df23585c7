package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TicketStatus string

const (
	TicketValid     TicketStatus = "Valid"
	TicketCheckedIn TicketStatus = "CheckedIn"
	TicketCancelled TicketStatus = "Cancelled"
)

func (s TicketStatus) Valid() bool {
	return s == TicketValid || s == TicketCheckedIn || s == TicketCancelled
}

// Label is the status shown in booking listings.
func (s TicketStatus) Label() string {
	if s == TicketValid {
		return "Booked"
	}
	return string(s)
}

type Ticket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Event     primitive.ObjectID `bson:"event" json:"event"`
	QRCode    string             `bson:"qrCode" json:"qrCode"`
	Status    TicketStatus       `bson:"status" json:"status"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// TicketView is a ticket with its user and event populated. Either side is
// nil when the referenced document no longer exists.
type TicketView struct {
	ID        primitive.ObjectID `json:"_id"`
	UserID    primitive.ObjectID `json:"userId"`
	EventID   primitive.ObjectID `json:"eventId"`
	User      *PersonSummary     `json:"user"`
	Event     *EventSummary      `json:"event"`
	QRCode    string             `json:"qrCode"`
	Status    TicketStatus       `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
}

// TicketFilter selects tickets by owner and/or event; zero ids match anything.
type TicketFilter struct {
	UserID  primitive.ObjectID
	EventID primitive.ObjectID
}
