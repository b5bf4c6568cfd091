package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleJSON(t *testing.T) {
	t.Parallel()

	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"admin"`), &r))
	assert.Equal(t, RoleAdmin, r)

	require.NoError(t, json.Unmarshal([]byte(`""`), &r))
	assert.Equal(t, Role(""), r)

	assert.Error(t, json.Unmarshal([]byte(`"Admin"`), &r))
	assert.Error(t, json.Unmarshal([]byte(`"root"`), &r))
	assert.Error(t, json.Unmarshal([]byte(`1`), &r))
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	_, err = ParseRole(" user")
	assert.Error(t, err)
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(User{ID: 1, Username: "a", PasswordHash: "$2a$secret", Role: RoleUser})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "email")
}

func TestItemLowStock(t *testing.T) {
	t.Parallel()
	assert.True(t, Item{Quantity: 5, Threshold: 5}.LowStock())
	assert.True(t, Item{Quantity: 0, Threshold: 0}.LowStock())
	assert.False(t, Item{Quantity: 6, Threshold: 5}.LowStock())
}
