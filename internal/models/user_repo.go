package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) BeforeCreate() {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Email = NormalizeEmail(u.Email)
	if u.Interests == nil {
		u.Interests = []string{}
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
}

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	user.BeforeCreate()
	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("user %w", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var user User
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (mdb *MongodbRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var user User
	if err := col.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&user); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (mdb *MongodbRepo) ListUsers(ctx context.Context) ([]*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding users: %v", err)
	}
	defer cursor.Close(ctx)

	users := []*User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %v", err)
	}
	return users, nil
}

func (mdb *MongodbRepo) UpdateUser(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*User, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	fields["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user User
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("email %w", ErrAlreadyExists)
		}
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (mdb *MongodbRepo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	return nil
}
