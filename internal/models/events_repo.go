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

type EventRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error)
	ListEvents(ctx context.Context, withSeats bool) ([]*Event, error)
	// UpdateEvent replaces the editable fields. It never lets seatAmount -
	// availableSeats drop below the seats already taken; see SeatGuard.
	UpdateEvent(ctx context.Context, id primitive.ObjectID, event *Event, guard SeatGuard) (*Event, error)
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
	// ReserveSeat takes one seat only if one is left; ErrNoSeats otherwise.
	ReserveSeat(ctx context.Context, id primitive.ObjectID) error
	ReleaseSeat(ctx context.Context, id primitive.ObjectID) error
}

// SeatGuard bounds an event update by the seats already handed out.
type SeatGuard struct {
	// KeepTaken ignores event.AvailableSeats and recomputes it from the
	// stored counter so the seats already taken stay taken.
	KeepTaken bool
	// MinTaken is the number of live tickets; seatAmount - availableSeats
	// may not end up below it.
	MinTaken int
}

// literal keeps user text such as "$name" from being read as a field path
// inside an update pipeline.
func literal(v interface{}) bson.M {
	return bson.M{"$literal": v}
}

func (e *Event) BeforeCreate() {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	event.BeforeCreate()
	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return event, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var event Event
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		return nil, notFoundOr(err, "event")
	}
	return &event, nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context, withSeats bool) ([]*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	if !withSeats {
		opts.SetProjection(bson.M{"seatAllocation": 0})
	}
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %v", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding events: %v", err)
	}
	return events, nil
}

func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, id primitive.ObjectID, event *Event, guard SeatGuard) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	// seats taken according to the stored counter, or by live tickets
	// when more tickets exist than the counter shows
	taken := bson.M{"$max": bson.A{
		bson.M{"$subtract": bson.A{"$seatAmount", "$availableSeats"}},
		guard.MinTaken,
	}}

	set := bson.M{
		"name":               literal(event.Name),
		"venue":              literal(event.Venue),
		"description":        literal(event.Description),
		"date":               event.Date,
		"time":               literal(event.Time),
		"ticketPrice":        event.TicketPrice,
		"seatAmount":         event.SeatAmount,
		"popularity":         literal(event.Popularity),
		"seatAllocation":     literal(event.SeatAllocation),
		"tags":               literal(event.Tags),
		"expectedAttendance": event.ExpectedAttendance,
		"updatedAt":          time.Now(),
	}
	filter := bson.M{"_id": id}
	if guard.KeepTaken {
		set["availableSeats"] = bson.M{"$subtract": bson.A{event.SeatAmount, taken}}
		filter["$expr"] = bson.M{"$gte": bson.A{event.SeatAmount, taken}}
	} else {
		set["availableSeats"] = literal(event.AvailableSeats)
		filter["$expr"] = bson.M{"$gte": bson.A{event.SeatAmount - event.AvailableSeats, taken}}
	}
	if event.StatusOverride == StatusPending {
		set["status"] = literal(StatusPending)
	}

	// pipeline form so the new counter is computed from the stored one
	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}
	if event.StatusOverride != StatusPending {
		pipeline = append(pipeline, bson.D{{Key: "$unset", Value: "status"}})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Event
	err = col.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// either the event is gone or the guard refused the seat numbers
		if _, getErr := mdb.GetEventByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSeatsTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("event %w", ErrNotFound)
	}
	return nil
}

func (mdb *MongodbRepo) ReserveSeat(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	filter := bson.M{"_id": id, "availableSeats": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"availableSeats": -1}}
	res, err := col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve seat: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoSeats
	}
	return nil
}

func (mdb *MongodbRepo) ReleaseSeat(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	filter := bson.M{
		"_id":   id,
		"$expr": bson.M{"$lt": bson.A{"$availableSeats", "$seatAmount"}},
	}
	update := bson.M{"$inc": bson.M{"availableSeats": 1}}
	if _, err := col.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release seat: %w", err)
	}
	return nil
}
