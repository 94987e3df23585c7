package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AdminRepo interface {
	CreateAdmin(ctx context.Context, admin *Admin) (*Admin, error)
	GetAdminByID(ctx context.Context, id primitive.ObjectID) (*Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)
	ListAdmins(ctx context.Context) ([]*Admin, error)
	UpdateAdmin(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*Admin, error)
	DeleteAdmin(ctx context.Context, id primitive.ObjectID) error
}

func (a *Admin) BeforeCreate() {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.Email = NormalizeEmail(a.Email)
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
}

func (mdb *MongodbRepo) CreateAdmin(ctx context.Context, admin *Admin) (*Admin, error) {
	col, err := mdb.GetCollection(ctx, AdminsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	admin.BeforeCreate()
	if _, err := col.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("admin %w", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to insert admin: %w", err)
	}
	return admin, nil
}

func (mdb *MongodbRepo) GetAdminByID(ctx context.Context, id primitive.ObjectID) (*Admin, error) {
	col, err := mdb.GetCollection(ctx, AdminsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var admin Admin
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&admin); err != nil {
		return nil, notFoundOr(err, "admin")
	}
	return &admin, nil
}

func (mdb *MongodbRepo) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	col, err := mdb.GetCollection(ctx, AdminsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var admin Admin
	if err := col.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&admin); err != nil {
		return nil, notFoundOr(err, "admin")
	}
	return &admin, nil
}

func (mdb *MongodbRepo) ListAdmins(ctx context.Context) ([]*Admin, error) {
	col, err := mdb.GetCollection(ctx, AdminsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding admins: %v", err)
	}
	defer cursor.Close(ctx)

	admins := []*Admin{}
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, fmt.Errorf("error decoding admins: %v", err)
	}
	return admins, nil
}

func (mdb *MongodbRepo) UpdateAdmin(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*Admin, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	col, err := mdb.GetCollection(ctx, AdminsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	fields["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var admin Admin
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("email %w", ErrAlreadyExists)
		}
		return nil, notFoundOr(err, "admin")
	}
	return &admin, nil
}

func (mdb *MongodbRepo) DeleteAdmin(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, AdminsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete admin: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("admin %w", ErrNotFound)
	}
	return nil
}
