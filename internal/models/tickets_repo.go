package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TicketRepo interface {
	CreateTicket(ctx context.Context, ticket *Ticket) (*Ticket, error)
	GetTicketByID(ctx context.Context, id primitive.ObjectID) (*Ticket, error)
	FindTicket(ctx context.Context, userID, eventID primitive.ObjectID) (*Ticket, error)
	ListTickets(ctx context.Context, filter TicketFilter) ([]*Ticket, error)
	// SetTicketStatus moves a ticket to next only while its status is one of from.
	SetTicketStatus(ctx context.Context, id primitive.ObjectID, from []TicketStatus, next TicketStatus) (*Ticket, error)
}

func (t *Ticket) BeforeCreate() {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.Status == "" {
		t.Status = TicketValid
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
}

func (mdb *MongodbRepo) CreateTicket(ctx context.Context, ticket *Ticket) (*Ticket, error) {
	col, err := mdb.GetCollection(ctx, TicketsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	ticket.BeforeCreate()
	if _, err := col.InsertOne(ctx, ticket); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyBooked
		}
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}
	return ticket, nil
}

func (mdb *MongodbRepo) GetTicketByID(ctx context.Context, id primitive.ObjectID) (*Ticket, error) {
	col, err := mdb.GetCollection(ctx, TicketsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var ticket Ticket
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket); err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	return &ticket, nil
}

func (mdb *MongodbRepo) FindTicket(ctx context.Context, userID, eventID primitive.ObjectID) (*Ticket, error) {
	col, err := mdb.GetCollection(ctx, TicketsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var ticket Ticket
	if err := col.FindOne(ctx, bson.M{"user": userID, "event": eventID}).Decode(&ticket); err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	return &ticket, nil
}

func (mdb *MongodbRepo) ListTickets(ctx context.Context, filter TicketFilter) ([]*Ticket, error) {
	col, err := mdb.GetCollection(ctx, TicketsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	query := bson.M{}
	if !filter.UserID.IsZero() {
		query["user"] = filter.UserID
	}
	if !filter.EventID.IsZero() {
		query["event"] = filter.EventID
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding tickets: %v", err)
	}
	defer cursor.Close(ctx)

	tickets := []*Ticket{}
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("error decoding tickets: %v", err)
	}
	return tickets, nil
}

func (mdb *MongodbRepo) SetTicketStatus(ctx context.Context, id primitive.ObjectID, from []TicketStatus, next TicketStatus) (*Ticket, error) {
	col, err := mdb.GetCollection(ctx, TicketsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ticket Ticket
	err = col.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"status": next}}, opts).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: ticket cannot move to %s", ErrInvalidInput, next)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket status: %w", err)
	}
	return &ticket, nil
}
