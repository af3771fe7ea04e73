package service

import (
	"context"
	"fmt"
	"time"

	"stress-index/internal/model"
	"stress-index/internal/stress"
)

// Snapshot is everything the scorer needs for one user.
type Snapshot struct {
	User  model.User
	Input stress.Input
}

type Fetcher struct{ store RecordReader }

func NewFetcher(r RecordReader) *Fetcher { return &Fetcher{store: r} }

// Fetch loads the user's scoring input for the window ending at now.
// ok is false, with a nil error, when the user is not a student.
func (f *Fetcher) Fetch(ctx context.Context, userID string, now time.Time) (*Snapshot, bool, error) {
	u, err := f.store.GetUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if u.Role != model.RoleStudent {
		return nil, false, nil
	}

	p, err := f.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	since := now.Add(-stress.Window)
	moods, err := f.store.ListMoodEntries(ctx, userID, since)
	if err != nil {
		return nil, false, fmt.Errorf("fetch moods: %w", err)
	}
	spending, err := f.store.ListSpendingEntries(ctx, userID, since)
	if err != nil {
		return nil, false, fmt.Errorf("fetch spending: %w", err)
	}

	in := stress.Input{
		Moods:    make([]stress.MoodEntry, 0, len(moods)),
		Spending: make([]stress.SpendingEntry, 0, len(spending)),
	}
	if p != nil {
		in.Triggers = []string(p.StressTriggers)
	}
	for _, m := range moods {
		in.Moods = append(in.Moods, stress.MoodEntry{
			At: m.Time, Mood: m.Mood, Money: m.Money, MoneyCausedStress: m.MoneyCausedStress,
		})
	}
	for _, s := range spending {
		in.Spending = append(in.Spending, stress.SpendingEntry{
			At: s.Time, Amount: s.AmountValue(), Unplanned: s.Unplanned(),
		})
	}
	return &Snapshot{User: *u, Input: in}, true, nil
}
