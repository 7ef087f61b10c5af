package models_test

import (
	"testing"
	"time"

	"userdir/internal/common"
	"userdir/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserStatus(t *testing.T) {
	s, err := models.ParseUserStatus("ONLINE")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnline, s)

	s, err = models.ParseUserStatus("OFFLINE")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOffline, s)

	for _, bad := range []string{"INVALID", "online", " ONLINE", ""} {
		_, err := models.ParseUserStatus(bad)
		assert.ErrorIs(t, err, common.ErrInvalidArgument, "input %q", bad)
	}
}

func TestParseBirthday(t *testing.T) {
	d, err := models.ParseBirthday("24.12.1990")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, time.December, 24, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"1990-12-24", "31.02.2001", "24/12/1990", "abc"} {
		_, err := models.ParseBirthday(bad)
		assert.ErrorIs(t, err, common.ErrInvalidArgument, "input %q", bad)
	}
}

func TestFormatBirthday(t *testing.T) {
	assert.Nil(t, models.FormatBirthday(nil))

	d := time.Date(2001, time.March, 5, 0, 0, 0, 0, time.UTC)
	got := models.FormatBirthday(&d)
	require.NotNil(t, got)
	assert.Equal(t, "05.03.2001", *got)
}

func TestOptional(t *testing.T) {
	v, ok := models.Some("alice").Get()
	assert.True(t, ok)
	assert.Equal(t, "alice", v)

	v, ok = models.None[string]().Get()
	assert.False(t, ok)
	assert.Empty(t, v)

	// An explicitly supplied zero value is still "set".
	_, ok = models.Some("").Get()
	assert.True(t, ok)
}

func TestNewUserEvent(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &models.User{ID: 9, Username: "bob", Status: models.StatusOffline, Password: "pw"}

	e := models.NewUserEvent(models.EventUserUpdated, u, at)

	assert.Equal(t, models.UserEvent{
		Type:       "user.updated",
		UserID:     9,
		Username:   "bob",
		Status:     models.StatusOffline,
		OccurredAt: at,
	}, e)
}
