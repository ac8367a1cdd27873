package service

import (
	"context"
	"testing"

	"ai-therapist-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewUserService(newMemFactory())
	ctx := context.Background()

	res, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "Asep",
		Email:    "asep@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asep", res.Name)
	assert.Equal(t, "asep@example.com", res.Email)

	// Same email again is rejected.
	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Name:     "Other",
		Email:    "asep@example.com",
		Password: "different",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewUserService(newMemFactory())
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "Asep",
		Email:    "asep@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	res, err := svc.Login(ctx, &dto.LoginRequest{Email: "asep@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "asep@example.com", res.User.Email)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "asep@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc := NewUserService(newMemFactory())

	_, err := svc.Get(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Malformed ids behave exactly like absent records.
	_, err = svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Update(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewUserService(newMemFactory())
	ctx := context.Background()

	created, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "Asep",
		Email:    "asep@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	name := "Asep Updated"
	res, err := svc.Update(ctx, created.Id.String(), &dto.UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Asep Updated", res.Name)
	assert.Equal(t, "asep@example.com", res.Email)

	_, err = svc.Update(ctx, created.Id.String(), &dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrNoUpdateFields)
}

func TestUserService_Delete(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewUserService(newMemFactory())
	ctx := context.Background()

	created, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "Asep",
		Email:    "asep@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.Id.String()))
	assert.ErrorIs(t, svc.Delete(ctx, created.Id.String()), ErrUserNotFound)
}
