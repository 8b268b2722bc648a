package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/carTloyal123/shoppi/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRows_Users(t *testing.T) {
	rows := []Row{
		{"user_id": json.Number("1"), "email": "a@x.com", "username": "alice", "password_hash": "h", "created_at": "2025-03-01T10:00:00Z"},
		{"user_id": json.Number("2"), "email": "b@x.com", "username": "bob", "password_hash": "h2", "created_at": nil},
	}

	users, err := ScanRows[models.User](rows)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, "alice", users[0].Username)
	require.NotNil(t, users[0].CreatedAt)
	assert.True(t, users[0].CreatedAt.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.Nil(t, users[1].CreatedAt)
}

func TestScanRows_EmptyIsNonNil(t *testing.T) {
	items, err := ScanRows[models.ListItem](nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestScanRow_TypeMismatch(t *testing.T) {
	var u models.User
	err := ScanRow(Row{"user_id": "not-a-number"}, &u)
	require.Error(t, err)
}
