package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories and services. Handlers map them
// onto HTTP status codes; wrap them with fmt.Errorf("%w") to add context.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("not authorized")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyBooked      = errors.New("you have already booked this event")
	ErrNoSeats            = errors.New("no seats available")
)

// ErrSeatsTaken reports an event update that would reopen seats already taken.
var ErrSeatsTaken = fmt.Errorf("%w: seats cannot drop below the number already taken", ErrInvalidInput)
