package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkolar/stockroom/internal/model"
)

// seedWorkspace creates a user and a workspace owned by it, for tests
// that need valid foreign keys.
func seedWorkspace(t *testing.T, db *sql.DB) *model.Workspace {
	t.Helper()
	ctx := context.Background()

	user, err := CreateUser(ctx, db, "", "owner-"+newID()+"@example.com", "hash")
	require.NoError(t, err)

	workspace, err := CreateWorkspace(ctx, db, "Test Workspace", user.ID)
	require.NoError(t, err)

	return workspace
}

// seedItemDeps creates a workspace, a category, and an item type so items
// can be inserted with valid references.
func seedItemDeps(t *testing.T, db *sql.DB) (*model.Workspace, *model.Category, *model.ItemType) {
	t.Helper()
	ctx := context.Background()

	workspace := seedWorkspace(t, db)

	category, err := CreateCategory(ctx, db, workspace.ID, "Root", "", "")
	require.NoError(t, err)

	itemType, err := CreateItemType(ctx, db, "Generic")
	require.NoError(t, err)

	return workspace, category, itemType
}
