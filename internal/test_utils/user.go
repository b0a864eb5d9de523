package test_utils

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archsheet/archsheet/pkg/user"
)

// CreateTestUser inserts a user fixture and returns it with its assigned ID.
func CreateTestUser(ctx context.Context, db *pgxpool.Pool, u user.User) (user.User, error) {
	repo := user.NewUserRepo(db)
	id, err := repo.CreateUser(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	u.Id = id
	return u, nil
}

// DefaultTestUser is a ready-to-insert employee fixture.
func DefaultTestUser() user.User {
	return user.User{
		Uid:       "test-user-uid",
		Email:     "test.user@firm.test",
		FirstName: "Test",
		LastName:  "User",
		Role:      user.RoleEmployee,
		IsActive:  true,
	}
}

// DefaultTestManager is a ready-to-insert manager fixture.
func DefaultTestManager() user.User {
	return user.User{
		Uid:       "test-manager-uid",
		Email:     "test.manager@firm.test",
		FirstName: "Test",
		LastName:  "Manager",
		Role:      user.RoleManager,
		IsActive:  true,
	}
}
