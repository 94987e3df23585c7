package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Message is stored with a discriminator next to each endpoint id naming
// the collection it lives in.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	From      primitive.ObjectID `bson:"from" json:"from"`
	FromModel RefKind            `bson:"fromModel" json:"fromModel"`
	To        primitive.ObjectID `bson:"to" json:"to"`
	ToModel   RefKind            `bson:"toModel" json:"toModel"`
	Msg       string             `bson:"msg" json:"msg" validate:"required"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func NewMessage(from, to IdentityRef, body string) *Message {
	return &Message{
		From:      from.ID,
		FromModel: from.Kind,
		To:        to.ID,
		ToModel:   to.Kind,
		Msg:       body,
	}
}

func (m *Message) Sender() IdentityRef {
	return IdentityRef{ID: m.From, Kind: m.FromModel}
}

func (m *Message) Recipient() IdentityRef {
	return IdentityRef{ID: m.To, Kind: m.ToModel}
}

// MessageView is a message with both endpoints populated.
type MessageView struct {
	ID        primitive.ObjectID `json:"_id"`
	From      *PersonSummary     `json:"from"`
	To        *PersonSummary     `json:"to"`
	Msg       string             `json:"msg"`
	CreatedAt time.Time          `json:"createdAt"`
}

// InboxItem is a received message with the sender reduced to a display name.
type InboxItem struct {
	ID        primitive.ObjectID `json:"_id"`
	From      string             `json:"from"`
	Msg       string             `json:"msg"`
	CreatedAt time.Time          `json:"createdAt"`
}

type MessageRepo interface {
	CreateMessage(ctx context.Context, msg *Message) (*Message, error)
	ListThread(ctx context.Context, a, b primitive.ObjectID) ([]*Message, error)
	// ListInbox returns messages addressed to id, newest first. limit <= 0 means all.
	ListInbox(ctx context.Context, id primitive.ObjectID, limit int64) ([]*Message, error)
}

func (m *Message) BeforeCreate() {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
}

func (mdb *MongodbRepo) CreateMessage(ctx context.Context, msg *Message) (*Message, error) {
	col, err := mdb.GetCollection(ctx, MessagesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	msg.BeforeCreate()
	if _, err := col.InsertOne(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return msg, nil
}

func (mdb *MongodbRepo) ListThread(ctx context.Context, a, b primitive.ObjectID) ([]*Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"from": a, "to": b},
		bson.M{"from": b, "to": a},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return mdb.findMessages(ctx, MessagesColName, filter, opts)
}

func (mdb *MongodbRepo) ListInbox(ctx context.Context, id primitive.ObjectID, limit int64) ([]*Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return mdb.findMessages(ctx, MessagesColName, bson.M{"to": id}, opts)
}

func (mdb *MongodbRepo) findMessages(ctx context.Context, colName string, filter bson.M, opts *options.FindOptions) ([]*Message, error) {
	col, err := mdb.GetCollection(ctx, colName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding messages: %v", err)
	}
	defer cursor.Close(ctx)

	messages := []*Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("error decoding messages: %v", err)
	}
	return messages, nil
}
