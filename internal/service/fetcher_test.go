package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stress-index/internal/model"
	"stress-index/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func TestFetchSkipsNonStudents(t *testing.T) {
	st := newMemStore()
	st.users["admin"] = model.User{ID: "admin", Role: "admin"}

	snap, ok, err := NewFetcher(st).Fetch(context.Background(), "admin", testNow)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestFetchMissingUserPropagates(t *testing.T) {
	_, ok, err := NewFetcher(newMemStore()).Fetch(context.Background(), "ghost", testNow)
	assert.False(t, ok)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFetchStorageError(t *testing.T) {
	st := newMemStore()
	boom := errors.New("store unavailable")
	st.failGet["u1"] = boom

	_, _, err := NewFetcher(st).Fetch(context.Background(), "u1", testNow)
	assert.ErrorIs(t, err, boom)
}

func TestFetchWindowAndNormalisation(t *testing.T) {
	st := newMemStore()
	st.addStudent("u1", "uni-9")
	st.profiles["u1"] = model.Profile{UserID: "u1", StressTriggers: []string{"Exams"}}
	st.moods["u1"] = []model.MoodEntry{
		{ID: "old", UserID: "u1", Time: testNow.Add(-7 * 24 * time.Hour), Mood: "Stressed"},
		{ID: "new", UserID: "u1", Time: testNow.Add(-time.Hour), Mood: "Anxious", Money: "Guilty"},
	}
	st.spending["u1"] = []model.SpendingEntry{
		{ID: "s1", UserID: "u1", Time: testNow.Add(-2 * time.Hour), Planned: boolPtr(false),
			Amount: decimal.NewNullDecimal(decimal.NewFromInt(30))},
		{ID: "s2", UserID: "u1", Time: testNow.Add(-3 * time.Hour), IsPlanned: boolPtr(true)},
	}

	snap, ok, err := NewFetcher(st).Fetch(context.Background(), "u1", testNow)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, testNow.Add(-7*24*time.Hour), st.lastSince)
	assert.Equal(t, "uni-9", snap.User.Institution())
	assert.Equal(t, []string{"Exams"}, snap.Input.Triggers)
	require.Len(t, snap.Input.Moods, 1)
	assert.Equal(t, "Anxious", snap.Input.Moods[0].Mood)
	require.Len(t, snap.Input.Spending, 2)
	assert.True(t, snap.Input.Spending[0].Unplanned)
	assert.Equal(t, 30.0, snap.Input.Spending[0].Amount)
	assert.False(t, snap.Input.Spending[1].Unplanned)
	assert.Equal(t, 0.0, snap.Input.Spending[1].Amount)
}

func TestFetchWithoutProfile(t *testing.T) {
	st := newMemStore()
	st.addStudent("u1", "")

	snap, ok, err := NewFetcher(st).Fetch(context.Background(), "u1", testNow)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, snap.Input.Triggers)
	assert.Empty(t, snap.Input.Moods)
	assert.Empty(t, snap.Input.Spending)
}
