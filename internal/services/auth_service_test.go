package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/eventx/internal/helpers"
	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthService(store *memStore, images ImageStore) *AuthService {
	return NewAuthService(store, store, images, testSecret, testLogger())
}

func TestRegisterUser(t *testing.T) {
	store := newMemStore()
	images := &fakeImages{}
	as := newAuthService(store, images)
	ctx := context.Background()

	in := &RegisterUserInput{
		Name:      "  Ama ",
		Email:     "Ama@Example.com",
		Password:  "secret123",
		Age:       24,
		Interests: []string{"music", "music", " tech "},
	}
	session, err := as.RegisterUser(ctx, in, strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, session.Identity.Role)
	assert.Equal(t, "Ama", session.Identity.Name)
	assert.Equal(t, "ama@example.com", session.Identity.Email)
	assert.Equal(t, []string{"music", "tech"}, session.Identity.Interests)
	assert.Len(t, images.uploaded, 1)
	assert.Equal(t, images.uploaded[0], session.Identity.Image)

	stored, err := store.GetUserByEmail(ctx, "ama@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.True(t, helpers.CheckPassword(stored.Password, "secret123"))

	claims, err := helpers.ParseToken([]byte(testSecret), session.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID.Hex(), claims.ID)
	assert.Equal(t, "user", claims.Role)

	_, err = as.RegisterUser(ctx, &RegisterUserInput{Name: "Ama", Email: "ama@example.com", Password: "secret123", Age: 24}, nil)
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
	assert.EqualError(t, err, "user already exists")
}

func TestRegisterUserRejections(t *testing.T) {
	as := newAuthService(newMemStore(), nil)
	ctx := context.Background()

	_, err := as.RegisterUser(ctx, &RegisterUserInput{Name: "x", Email: "x@example.com", Password: "secret123", Age: 20, Role: "admin"}, nil)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = as.RegisterUser(ctx, &RegisterUserInput{Name: "x", Email: "x@example.com", Password: "secret123", Age: 0}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = as.RegisterUser(ctx, &RegisterUserInput{Name: "x", Email: "not-an-email", Password: "secret123", Age: 20}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	as := newAuthService(store, nil)
	ctx := context.Background()

	_, err := as.RegisterUser(ctx, &RegisterUserInput{Name: "Kofi", Email: "kofi@example.com", Password: "secret123", Age: 30}, nil)
	require.NoError(t, err)
	_, err = as.RegisterAdmin(ctx, &RegisterAdminInput{Name: "Root", Email: "root@example.com", Password: "adminpass"}, nil)
	require.NoError(t, err)

	session, err := as.Login(ctx, "kofi@example.com", "secret123", models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "Kofi", session.Identity.Name)

	_, err = as.Login(ctx, "kofi@example.com", "wrong", models.RoleUser)
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = as.Login(ctx, "nobody@example.com", "secret123", models.RoleUser)
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	// an admin cannot log in through the user store
	_, err = as.Login(ctx, "root@example.com", "adminpass", models.RoleUser)
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	admin, err := as.Login(ctx, "root@example.com", "adminpass", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.Identity.IsAdmin())
}

func TestResolve(t *testing.T) {
	store := newMemStore()
	as := newAuthService(store, nil)
	ctx := context.Background()

	user, err := as.RegisterUser(ctx, &RegisterUserInput{Name: "Esi", Email: "esi@example.com", Password: "secret123", Age: 28}, nil)
	require.NoError(t, err)
	admin, err := as.RegisterAdmin(ctx, &RegisterAdminInput{Name: "Boss", Email: "boss@example.com", Password: "adminpass"}, nil)
	require.NoError(t, err)

	got, err := as.Resolve(ctx, user.Token, ScopeAny)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, got.Role)

	got, err = as.Resolve(ctx, admin.Token, ScopeAny)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	_, err = as.Resolve(ctx, user.Token, ScopeAdmin)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = as.Resolve(ctx, admin.Token, ScopeUser)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = as.Resolve(ctx, "", ScopeAny)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = as.Resolve(ctx, user.Token+"x", ScopeAny)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	expired, err := helpers.GenerateToken([]byte(testSecret), user.Identity.ID.Hex(), "user", -time.Minute)
	require.NoError(t, err)
	_, err = as.Resolve(ctx, expired, ScopeAny)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	require.NoError(t, store.DeleteUser(ctx, user.Identity.ID))
	_, err = as.Resolve(ctx, user.Token, ScopeAny)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestEnsureSuperAdmin(t *testing.T) {
	store := newMemStore()
	as := newAuthService(store, nil)
	ctx := context.Background()

	created, err := as.EnsureSuperAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = as.EnsureSuperAdmin(ctx, "super@example.com", "supersecret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = as.EnsureSuperAdmin(ctx, "super@example.com", "supersecret")
	require.NoError(t, err)
	assert.False(t, created)

	admins, err := store.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}
