package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/eventx/internal/helpers"
	"github.com/joshua-takyi/eventx/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileUpdate carries the fields a profile update may change. Nil
// pointers and a nil Interests slice leave the stored value untouched.
type ProfileUpdate struct {
	Name        *string  `json:"name" form:"name"`
	Email       *string  `json:"email" form:"email"`
	Password    *string  `json:"password" form:"password"`
	Age         *int     `json:"age" form:"age"`
	Gender      *string  `json:"gender" form:"gender"`
	Location    *string  `json:"location" form:"location"`
	Interests   []string `json:"interests" form:"interests"`
	RemoveImage bool     `json:"removeImage" form:"removeImage"`
}

type PeopleService struct {
	users           models.UserRepo
	admins          models.AdminRepo
	images          ImageStore
	superAdminEmail string
	logger          *slog.Logger
}

func NewPeopleService(users models.UserRepo, admins models.AdminRepo, images ImageStore, superAdminEmail string, logger *slog.Logger) *PeopleService {
	return &PeopleService{
		users:           users,
		admins:          admins,
		images:          images,
		superAdminEmail: models.NormalizeEmail(superAdminEmail),
		logger:          logger,
	}
}

func (ps *PeopleService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return ps.users.ListUsers(ctx)
}

func (ps *PeopleService) ListAdmins(ctx context.Context) ([]*models.Admin, error) {
	return ps.admins.ListAdmins(ctx)
}

func (ps *PeopleService) UserSummaries(ctx context.Context) ([]*models.PersonSummary, error) {
	users, err := ps.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.PersonSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

func (ps *PeopleService) AdminSummaries(ctx context.Context) ([]*models.PersonSummary, error) {
	admins, err := ps.admins.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.PersonSummary, 0, len(admins))
	for _, a := range admins {
		out = append(out, a.Summary())
	}
	return out, nil
}

// Contacts lists who the caller may message: admins see users, users see admins.
func (ps *PeopleService) Contacts(ctx context.Context, caller *models.Identity) ([]*models.PersonSummary, error) {
	if caller.IsAdmin() {
		return ps.UserSummaries(ctx)
	}
	return ps.AdminSummaries(ctx)
}

func (ps *PeopleService) GetUser(ctx context.Context, caller *models.Identity, id primitive.ObjectID) (*models.User, error) {
	if !caller.IsAdmin() && !caller.IsOwner(id) {
		return nil, fmt.Errorf("%w: you can only view your own profile", models.ErrForbidden)
	}
	return ps.users.GetUserByID(ctx, id)
}

func (ps *PeopleService) UpdateUser(ctx context.Context, caller *models.Identity, id primitive.ObjectID, in *ProfileUpdate, image io.Reader) (*models.User, error) {
	if !caller.IsAdmin() && !caller.IsOwner(id) {
		return nil, fmt.Errorf("%w: you can only update your own profile", models.ErrForbidden)
	}
	current, err := ps.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := profileFields(in, true)
	if err != nil {
		return nil, err
	}
	newImage, err := ps.applyImage(ctx, fields, current.Image, in.RemoveImage, image)
	if err != nil {
		return nil, err
	}

	updated, err := ps.users.UpdateUser(ctx, id, fields)
	if err != nil {
		ps.discard(ctx, newImage)
		return nil, err
	}
	if _, changed := fields["image"]; changed {
		ps.discard(ctx, current.Image)
	}
	return updated, nil
}

func (ps *PeopleService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	user, err := ps.users.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ps.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	ps.discard(ctx, user.Image)
	return nil
}

func (ps *PeopleService) GetAdmin(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	return ps.admins.GetAdminByID(ctx, id)
}

func (ps *PeopleService) UpdateAdmin(ctx context.Context, id primitive.ObjectID, in *ProfileUpdate, image io.Reader) (*models.Admin, error) {
	current, err := ps.admins.GetAdminByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := profileFields(in, false)
	if err != nil {
		return nil, err
	}
	newImage, err := ps.applyImage(ctx, fields, current.Image, in.RemoveImage, image)
	if err != nil {
		return nil, err
	}

	updated, err := ps.admins.UpdateAdmin(ctx, id, fields)
	if err != nil {
		ps.discard(ctx, newImage)
		return nil, err
	}
	if _, changed := fields["image"]; changed {
		ps.discard(ctx, current.Image)
	}
	return updated, nil
}

// DeleteAdmin removes an admin. The configured super admin and the
// caller's own account are protected.
func (ps *PeopleService) DeleteAdmin(ctx context.Context, caller *models.Identity, id primitive.ObjectID) error {
	if caller.IsOwner(id) {
		return fmt.Errorf("%w: you cannot delete your own account", models.ErrForbidden)
	}
	admin, err := ps.admins.GetAdminByID(ctx, id)
	if err != nil {
		return err
	}
	if ps.superAdminEmail != "" && models.NormalizeEmail(admin.Email) == ps.superAdminEmail {
		return fmt.Errorf("%w: the super admin cannot be deleted", models.ErrForbidden)
	}
	if err := ps.admins.DeleteAdmin(ctx, id); err != nil {
		return err
	}
	ps.discard(ctx, admin.Image)
	return nil
}

// profileFields turns an update into a $set document. Demographic fields
// only apply to users.
func profileFields(in *ProfileUpdate, isUser bool) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name := helpers.StringTrim(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", models.ErrInvalidInput)
		}
		fields["name"] = name
	}
	if in.Email != nil {
		email := models.NormalizeEmail(*in.Email)
		if err := models.Validate.Var(email, "required,email"); err != nil {
			return nil, fmt.Errorf("%w: invalid email", models.ErrInvalidInput)
		}
		fields["email"] = email
	}
	if in.Password != nil && strings.TrimSpace(*in.Password) != "" {
		if err := models.Validate.Var(*in.Password, "min=6"); err != nil {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", models.ErrInvalidInput)
		}
		hashed, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hashed
	}
	if !isUser {
		return fields, nil
	}
	if in.Age != nil {
		if *in.Age <= 0 {
			return nil, fmt.Errorf("%w: please enter a valid age", models.ErrInvalidInput)
		}
		fields["age"] = *in.Age
	}
	if in.Gender != nil {
		fields["gender"] = helpers.StringTrim(*in.Gender)
	}
	if in.Location != nil {
		fields["location"] = helpers.StringTrim(*in.Location)
	}
	if in.Interests != nil {
		fields["interests"] = helpers.RemoveDuplicates(in.Interests)
	}
	return fields, nil
}

// applyImage uploads a replacement image or clears the current one and
// records the change in fields. It returns the URL of a fresh upload.
func (ps *PeopleService) applyImage(ctx context.Context, fields map[string]interface{}, current string, remove bool, image io.Reader) (string, error) {
	switch {
	case image != nil && ps.images != nil:
		url, err := ps.images.Upload(ctx, image)
		if err != nil {
			return "", err
		}
		fields["image"] = url
		return url, nil
	case remove && current != "":
		fields["image"] = ""
	}
	return "", nil
}

func (ps *PeopleService) discard(ctx context.Context, imageURL string) {
	if imageURL == "" || ps.images == nil {
		return
	}
	if err := ps.images.Delete(ctx, imageURL); err != nil {
		ps.logger.Warn("failed to delete image", "url", imageURL, "error", err)
	}
}
