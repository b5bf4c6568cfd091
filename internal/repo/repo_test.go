package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/smart_inventory/internal/models"
	"github.com/Skotchmaster/smart_inventory/internal/repo"
	"github.com/Skotchmaster/smart_inventory/internal/testutil"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	r := repo.New(testutil.NewDB(t))

	u := models.User{Username: "alice", PasswordHash: "h", Role: models.RoleUser, Email: strp("a@example.com")}
	require.NoError(t, r.CreateUser(ctx, &u))
	require.NotZero(t, u.ID)

	dup := models.User{Username: "alice", PasswordHash: "h", Role: models.RoleUser}
	require.ErrorIs(t, r.CreateUser(ctx, &dup), repo.ErrDuplicate)

	// absent emails do not collide
	require.NoError(t, r.CreateUser(ctx, &models.User{Username: "bob", PasswordHash: "h", Role: models.RoleUser}))
	require.NoError(t, r.CreateUser(ctx, &models.User{Username: "carol", PasswordHash: "h", Role: models.RoleAdmin}))

	taken, err := r.UsernameTaken(ctx, "alice", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = r.UsernameTaken(ctx, "alice", u.ID)
	require.NoError(t, err)
	assert.False(t, taken)
	taken, err = r.EmailTaken(ctx, "a@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	got, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, repo.ErrNotFound)

	users, err := r.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)

	var noEmail *string
	assert.True(t, repo.UserPatch{}.Empty())
	assert.False(t, repo.UserPatch{Email: &noEmail}.Empty())
	admin := models.RoleAdmin
	updated, err := r.UpdateUser(ctx, u.ID, repo.UserPatch{FullName: strp("Alice A"), Email: &noEmail, Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, "Alice A", updated.FullName)
	assert.Nil(t, updated.Email)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	_, err = r.UpdateUser(ctx, u.ID, repo.UserPatch{Username: strp("bob")})
	require.ErrorIs(t, err, repo.ErrDuplicate)

	_, err = r.UpdateUser(ctx, 999, repo.UserPatch{FullName: strp("x")})
	require.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.DeleteUser(ctx, u.ID))
	require.ErrorIs(t, r.DeleteUser(ctx, u.ID), repo.ErrNotFound)
	_, err = r.GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestItemLifecycle(t *testing.T) {
	ctx := context.Background()
	r := repo.New(testutil.NewDB(t))

	for _, it := range []models.Item{
		{Name: "bolt", Quantity: 50, Threshold: 10},
		{Name: "nut", Quantity: 3, Threshold: 5},
		{Name: "gear", Quantity: 5, Threshold: 5},
	} {
		it := it
		require.NoError(t, r.CreateItem(ctx, &it))
	}

	byID, err := r.ListItems(ctx, repo.OrderByID)
	require.NoError(t, err)
	require.Len(t, byID, 3)
	assert.Equal(t, []string{"bolt", "nut", "gear"}, names(byID))

	byQty, err := r.ListItems(ctx, repo.OrderByQuantity)
	require.NoError(t, err)
	assert.Equal(t, []string{"nut", "gear", "bolt"}, names(byQty))

	low, err := r.ListLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"nut", "gear"}, names(low))

	item, err := r.UpdateItem(ctx, byID[0].ID, repo.ItemPatch{Quantity: intp(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, "bolt", item.Name)
	assert.True(t, item.LowStock())

	assert.True(t, repo.ItemPatch{}.Empty())
	assert.False(t, repo.ItemPatch{Threshold: intp(0)}.Empty())
	same, err := r.UpdateItem(ctx, byID[0].ID, repo.ItemPatch{})
	require.NoError(t, err)
	assert.Equal(t, item.Quantity, same.Quantity)

	_, err = r.UpdateItem(ctx, 999, repo.ItemPatch{Name: strp("x")})
	require.ErrorIs(t, err, repo.ErrNotFound)
	_, err = r.UpdateItem(ctx, 999, repo.ItemPatch{})
	require.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.DeleteItem(ctx, byID[1].ID))
	require.ErrorIs(t, r.DeleteItem(ctx, byID[1].ID), repo.ErrNotFound)
	_, err = r.GetItem(ctx, byID[1].ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestEmptyListsAreNotNil(t *testing.T) {
	ctx := context.Background()
	r := repo.New(testutil.NewDB(t))

	items, err := r.ListItems(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	users, err := r.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
}

func TestDuplicateUsernameMapsToSentinel(t *testing.T) {
	ctx := context.Background()
	r := repo.New(testutil.NewDB(t))

	require.NoError(t, r.CreateUser(ctx, &models.User{Username: "x", PasswordHash: "h", Role: models.RoleUser}))
	err := r.CreateUser(ctx, &models.User{Username: "x", PasswordHash: "h", Role: models.RoleUser})
	require.ErrorIs(t, err, repo.ErrDuplicate)
}

func names(items []models.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}
