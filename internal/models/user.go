package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name" validate:"required"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Password  string             `bson:"password" json:"-"`
	Age       int                `bson:"age" json:"age" validate:"gt=0"`
	Gender    string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Location  string             `bson:"location,omitempty" json:"location,omitempty"`
	Interests []string           `bson:"interests" json:"interests"`
	Image     string             `bson:"image,omitempty" json:"image"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Admin struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name" validate:"required"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Password  string             `bson:"password" json:"-"`
	Image     string             `bson:"image,omitempty" json:"image"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PersonSummary is the trimmed projection used when a user or admin is
// embedded into another payload.
type PersonSummary struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Image string             `json:"image,omitempty"`
	Role  Role               `json:"role,omitempty"`
}

func (u *User) Summary() *PersonSummary {
	return &PersonSummary{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

func (a *Admin) Summary() *PersonSummary {
	return &PersonSummary{ID: a.ID, Name: a.Name, Email: a.Email, Image: a.Image, Role: RoleAdmin}
}
