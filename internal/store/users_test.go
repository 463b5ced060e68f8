package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkolar/stockroom/internal/db"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "Alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := GetUser(ctx, database, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	byEmail, err := GetUserByEmail(ctx, database, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestGetUserAbsent(t *testing.T) {
	database := db.NewTestDB(t)

	user, err := GetUser(context.Background(), database, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateUser(ctx, database, "Alice", "alice@example.com", "hash")
	require.NoError(t, err)

	_, err = CreateUser(ctx, database, "Other", "alice@example.com", "hash")
	require.Error(t, err)
}

func TestCreateUserEmptyName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Two users without a name must not collide on the unique name column.
	_, err := CreateUser(ctx, database, "", "a@example.com", "hash")
	require.NoError(t, err)
	_, err = CreateUser(ctx, database, "", "b@example.com", "hash")
	require.NoError(t, err)
}

func TestUpdateUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "Alice", "alice@example.com", "hash")
	require.NoError(t, err)

	email := "alice2@example.com"
	require.NoError(t, UpdateUser(ctx, database, user.ID, UserUpdate{Email: &email}))

	got, err := GetUser(ctx, database, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", got.Email)
	assert.Equal(t, "Alice", got.Name, "name untouched by partial update")

	require.ErrorIs(t,
		UpdateUser(ctx, database, "no-such-id", UserUpdate{Email: &email}),
		ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "Alice", "alice@example.com", "hash")
	require.NoError(t, err)

	require.NoError(t, DeleteUser(ctx, database, user.ID))

	got, err := GetUser(ctx, database, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.ErrorIs(t, DeleteUser(ctx, database, user.ID), ErrNotFound)
}

func TestListUsers(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	users, err := ListUsers(ctx, database)
	require.NoError(t, err)
	assert.Empty(t, users)

	CreateUser(ctx, database, "B", "b@example.com", "hash")
	CreateUser(ctx, database, "A", "a@example.com", "hash")

	users, err = ListUsers(ctx, database)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email, "sorted by email")
}
