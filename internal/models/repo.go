package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Validate = validator.New()

const (
	UsersColName    = "users"
	AdminsColName   = "admins"
	EventsColName   = "events"
	TicketsColName  = "tickets"
	MessagesColName = "messages"
)

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

// EnsureIndexes creates the unique and lookup indexes every collection relies on.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		UsersColName: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("email_unique"),
			},
		},
		AdminsColName: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("email_unique"),
			},
		},
		// one ticket per (user, event)
		TicketsColName: {
			{
				Keys: bson.D{
					{Key: "user", Value: 1},
					{Key: "event", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("user_event_unique"),
			},
			{
				Keys:    bson.D{{Key: "event", Value: 1}},
				Options: options.Index().SetName("event_idx"),
			},
		},
		MessagesColName: {
			{
				Keys: bson.D{
					{Key: "to", Value: 1},
					{Key: "createdAt", Value: -1},
				},
				Options: options.Index().SetName("to_created_idx"),
			},
			{
				Keys: bson.D{
					{Key: "from", Value: 1},
					{Key: "to", Value: 1},
					{Key: "createdAt", Value: 1},
				},
				Options: options.Index().SetName("thread_idx"),
			},
		},
	}

	for colName, models := range indexes {
		col, err := mdb.GetCollection(ctx, colName)
		if err != nil {
			return fmt.Errorf("error getting collection: %v", err)
		}
		if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", colName, err)
		}
	}
	return nil
}

// ParseID converts a hex string into an ObjectID, reporting bad input as ErrInvalidInput.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed id %q", ErrInvalidInput, id)
	}
	return oid, nil
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}
