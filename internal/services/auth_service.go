package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/joshua-takyi/eventx/internal/helpers"
	"github.com/joshua-takyi/eventx/internal/models"
)

// ImageStore persists profile images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// Scope selects which identity store a token is resolved against.
type Scope int

const (
	ScopeAny Scope = iota
	ScopeAdmin
	ScopeUser
)

type RegisterUserInput struct {
	Name      string   `json:"name" form:"name" validate:"required"`
	Email     string   `json:"email" form:"email" validate:"required,email"`
	Password  string   `json:"password" form:"password" validate:"required,min=6"`
	Age       int      `json:"age" form:"age"`
	Gender    string   `json:"gender" form:"gender"`
	Location  string   `json:"location" form:"location"`
	Interests []string `json:"interests" form:"interests"`
	Role      string   `json:"role" form:"role"`
}

type RegisterAdminInput struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// Session is the result of a successful register or login.
type Session struct {
	Identity *models.Identity
	Token    string
}

type AuthService struct {
	users  models.UserRepo
	admins models.AdminRepo
	images ImageStore
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

func NewAuthService(users models.UserRepo, admins models.AdminRepo, images ImageStore, secret string, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		admins: admins,
		images: images,
		secret: []byte(secret),
		ttl:    helpers.TokenTTL,
		logger: logger,
	}
}

func (as *AuthService) IssueToken(identity *models.Identity) (string, error) {
	return helpers.GenerateToken(as.secret, identity.ID.Hex(), string(identity.Role), as.ttl)
}

func (as *AuthService) RegisterUser(ctx context.Context, in *RegisterUserInput, image io.Reader) (*Session, error) {
	if in.Role == string(models.RoleAdmin) {
		return nil, fmt.Errorf("%w: admin registration is not allowed from this route", models.ErrForbidden)
	}
	if err := models.Validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	if in.Age <= 0 {
		return nil, fmt.Errorf("%w: please enter a valid age", models.ErrInvalidInput)
	}

	if _, err := as.users.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("user %w", models.ErrAlreadyExists)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hashed, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	imageURL, err := as.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	user, err := as.users.CreateUser(ctx, &models.User{
		Name:      helpers.StringTrim(in.Name),
		Email:     in.Email,
		Password:  hashed,
		Age:       in.Age,
		Gender:    helpers.StringTrim(in.Gender),
		Location:  helpers.StringTrim(in.Location),
		Interests: helpers.RemoveDuplicates(in.Interests),
		Image:     imageURL,
	})
	if err != nil {
		as.discardImage(ctx, imageURL)
		return nil, err
	}
	return as.session(user.Identity())
}

func (as *AuthService) RegisterAdmin(ctx context.Context, in *RegisterAdminInput, image io.Reader) (*Session, error) {
	if err := models.Validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	if _, err := as.admins.GetAdminByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("admin %w", models.ErrAlreadyExists)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hashed, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	imageURL, err := as.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	admin, err := as.admins.CreateAdmin(ctx, &models.Admin{
		Name:     helpers.StringTrim(in.Name),
		Email:    in.Email,
		Password: hashed,
		Image:    imageURL,
	})
	if err != nil {
		as.discardImage(ctx, imageURL)
		return nil, err
	}
	return as.session(admin.Identity())
}

// Login checks the credentials against the store for role.
func (as *AuthService) Login(ctx context.Context, email, password string, role models.Role) (*Session, error) {
	var (
		identity *models.Identity
		hash     string
	)
	switch role {
	case models.RoleAdmin:
		admin, err := as.admins.GetAdminByEmail(ctx, email)
		if err != nil {
			return nil, credentialsErr(err)
		}
		identity, hash = admin.Identity(), admin.Password
	default:
		user, err := as.users.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, credentialsErr(err)
		}
		identity, hash = user.Identity(), user.Password
	}

	if !helpers.CheckPassword(hash, password) {
		return nil, models.ErrInvalidCredentials
	}
	return as.session(identity)
}

func credentialsErr(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrInvalidCredentials
	}
	return err
}

// Resolve verifies a session token and loads the identity it names from
// the store selected by scope.
func (as *AuthService) Resolve(ctx context.Context, token string, scope Scope) (*models.Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w, no token", models.ErrUnauthorized)
	}
	claims, err := helpers.ParseToken(as.secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w, %v", models.ErrUnauthorized, err)
	}
	id, err := models.ParseID(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w, token failed", models.ErrUnauthorized)
	}

	asAdmin := scope == ScopeAdmin || (scope == ScopeAny && claims.IsAdmin())
	if asAdmin {
		admin, err := as.admins.GetAdminByID(ctx, id)
		if err != nil {
			return nil, identityErr(err, "admin")
		}
		return admin.Identity(), nil
	}
	user, err := as.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, identityErr(err, "user")
	}
	return user.Identity(), nil
}

func identityErr(err error, what string) error {
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%w, %s not found", models.ErrUnauthorized, what)
	}
	return err
}

// EnsureSuperAdmin creates the configured super admin if it does not exist yet.
func (as *AuthService) EnsureSuperAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	if _, err := as.admins.GetAdminByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	_, err := as.RegisterAdmin(ctx, &RegisterAdminInput{Name: "Super Admin", Email: email, Password: password}, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create super admin: %w", err)
	}
	return true, nil
}

func (as *AuthService) session(identity *models.Identity) (*Session, error) {
	token, err := as.IssueToken(identity)
	if err != nil {
		return nil, err
	}
	return &Session{Identity: identity, Token: token}, nil
}

func (as *AuthService) uploadImage(ctx context.Context, image io.Reader) (string, error) {
	if image == nil || as.images == nil {
		return "", nil
	}
	return as.images.Upload(ctx, image)
}

func (as *AuthService) discardImage(ctx context.Context, imageURL string) {
	if imageURL == "" || as.images == nil {
		return
	}
	if err := as.images.Delete(ctx, imageURL); err != nil {
		as.logger.Warn("failed to clean up uploaded image", "url", imageURL, "error", err)
	}
}
