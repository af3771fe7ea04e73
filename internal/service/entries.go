package service

import (
	"context"
	"errors"
	"time"

	"stress-index/internal/model"

	"github.com/shopspring/decimal"
)

var ErrFutureEntry = errors.New("entry time is in the future")

// EntryService records the raw mood and spending entries that later
// scoring runs read.
type EntryService struct {
	store EntryWriter
	now   func() time.Time
}

func NewEntryService(w EntryWriter) *EntryService {
	return &EntryService{store: w, now: time.Now}
}

type MoodInput struct {
	Time              *time.Time `json:"time"`
	Mood              string     `json:"mood"`
	Money             string     `json:"money"`
	MoneyCausedStress bool       `json:"moneyCausedStress"`
}

// SpendingInput accepts both planned field names sent by older clients.
type SpendingInput struct {
	Time      *time.Time `json:"time"`
	Amount    *float64   `json:"amount"`
	IsPlanned *bool      `json:"isPlanned"`
	Planned   *bool      `json:"planned"`
	Category  string     `json:"category"`
}

func (s *EntryService) RecordMood(ctx context.Context, userID string, in MoodInput) (*model.MoodEntry, error) {
	at, err := s.entryTime(in.Time)
	if err != nil {
		return nil, err
	}
	e := &model.MoodEntry{
		UserID: userID, Time: at,
		Mood: in.Mood, Money: in.Money, MoneyCausedStress: in.MoneyCausedStress,
	}
	if err := s.store.SaveMood(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EntryService) RecordSpending(ctx context.Context, userID string, in SpendingInput) (*model.SpendingEntry, error) {
	at, err := s.entryTime(in.Time)
	if err != nil {
		return nil, err
	}
	e := &model.SpendingEntry{
		UserID: userID, Time: at,
		IsPlanned: in.IsPlanned, Planned: in.Planned, Category: in.Category,
	}
	if in.Amount != nil {
		e.Amount = decimal.NewNullDecimal(decimal.NewFromFloat(*in.Amount))
	}
	if err := s.store.SaveSpending(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EntryService) entryTime(t *time.Time) (time.Time, error) {
	now := s.now()
	if t == nil {
		return now, nil
	}
	if t.After(now.Add(time.Minute)) {
		return time.Time{}, ErrFutureEntry
	}
	return *t, nil
}
