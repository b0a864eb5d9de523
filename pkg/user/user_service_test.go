package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateByEmail(t *testing.T) {
	t.Run("returns the existing user for a known email", func(t *testing.T) {
		// given
		repo := NewStubUserRepository()
		service := NewUserService(repo)
		existing, err := service.CreateUser(context.Background(), User{
			Email:     "iris.vang@firm.test",
			FirstName: "Iris",
			LastName:  "Vang",
		})
		require.NoError(t, err)

		// when
		found, err := service.FindOrCreateByEmail(context.Background(), "iris.vang@firm.test", "Iris", "Vang")

		// then
		require.NoError(t, err)
		assert.Equal(t, existing.Id, found.Id)
		assert.Equal(t, existing.Uid, found.Uid)
	})

	t.Run("creates an active employee for an unknown email", func(t *testing.T) {
		repo := NewStubUserRepository()
		service := NewUserService(repo)

		created, err := service.FindOrCreateByEmail(context.Background(), "new.hire@firm.test", "New", "Hire")

		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.NotEmpty(t, created.Uid)
		assert.Equal(t, RoleEmployee, created.Role)
		assert.True(t, created.IsActive)
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("assigns a uid and the employee role by default", func(t *testing.T) {
		service := NewUserService(NewStubUserRepository())

		created, err := service.CreateUser(context.Background(), User{Email: "a@firm.test"})

		require.NoError(t, err)
		assert.NotEmpty(t, created.Uid)
		assert.Equal(t, RoleEmployee, created.Role)
	})
}

func TestCurrentUser(t *testing.T) {
	t.Run("resolves the user from the context", func(t *testing.T) {
		repo := NewStubUserRepository()
		service := NewUserService(repo)
		created, err := service.CreateUser(context.Background(), User{Email: "a@firm.test"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), created)

		current, err := service.GetCurrentUser(ctx)

		require.NoError(t, err)
		assert.Equal(t, created.Id, current.Id)
	})

	t.Run("fails without a user in the context", func(t *testing.T) {
		service := NewUserService(NewStubUserRepository())

		_, err := service.GetCurrentUser(context.Background())

		assert.ErrorIs(t, err, ErrNoUser)
	})
}
