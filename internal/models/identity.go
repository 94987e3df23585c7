package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefKind names the collection an IdentityRef points into.
type RefKind string

const (
	KindUser  RefKind = "User"
	KindAdmin RefKind = "Admin"
)

func (k RefKind) Valid() bool {
	return k == KindUser || k == KindAdmin
}

// IdentityRef is a reference to either a user or an admin.
type IdentityRef struct {
	ID   primitive.ObjectID
	Kind RefKind
}

// Identity is the caller resolved by the auth middleware.
type Identity struct {
	ID        primitive.ObjectID `json:"_id"`
	Role      Role               `json:"role"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Image     string             `json:"image"`
	Age       int                `json:"age,omitempty"`
	Gender    string             `json:"gender,omitempty"`
	Location  string             `json:"location,omitempty"`
	Interests []string           `json:"interests,omitempty"`
}

func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i *Identity) IsOwner(id primitive.ObjectID) bool {
	return i.ID == id
}

func (i *Identity) Ref() IdentityRef {
	if i.IsAdmin() {
		return IdentityRef{ID: i.ID, Kind: KindAdmin}
	}
	return IdentityRef{ID: i.ID, Kind: KindUser}
}

func (u *User) Identity() *Identity {
	return &Identity{
		ID:        u.ID,
		Role:      RoleUser,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		Age:       u.Age,
		Gender:    u.Gender,
		Location:  u.Location,
		Interests: u.Interests,
	}
}

func (a *Admin) Identity() *Identity {
	return &Identity{
		ID:    a.ID,
		Role:  RoleAdmin,
		Name:  a.Name,
		Email: a.Email,
		Image: a.Image,
	}
}
