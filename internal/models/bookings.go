package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is the listing shape of a ticket as seen from an event or a user.
type Booking struct {
	ID        primitive.ObjectID `json:"_id"`
	User      *PersonSummary     `json:"user,omitempty"`
	Event     *EventSummary      `json:"event,omitempty"`
	UserID    primitive.ObjectID `json:"userId"`
	EventID   primitive.ObjectID `json:"eventId"`
	Status    string             `json:"status"` // "Booked", "CheckedIn" or "Cancelled"
	Timestamp time.Time          `json:"timestamp"`
}

func (v *TicketView) Booking() *Booking {
	return &Booking{
		ID:        v.ID,
		User:      v.User,
		Event:     v.Event,
		UserID:    v.UserID,
		EventID:   v.EventID,
		Status:    v.Status.Label(),
		Timestamp: v.Timestamp,
	}
}
