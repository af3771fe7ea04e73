package service

import (
	"context"
	"time"

	"stress-index/internal/model"
)

// RecordReader is the read side the fetcher needs from the record store.
type RecordReader interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	ListMoodEntries(ctx context.Context, userID string, since time.Time) ([]model.MoodEntry, error)
	ListSpendingEntries(ctx context.Context, userID string, since time.Time) ([]model.SpendingEntry, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}

// SummaryWriter performs the three merge-writes of a publish.
type SummaryWriter interface {
	MergeUserSummary(ctx context.Context, userID string, s model.StressSummary) error
	MergeInstitutionSummary(ctx context.Context, universityID, userID string, s model.StressSummary) error
	UpsertInstitutionStudent(ctx context.Context, universityID, userID string, at time.Time) error
}

type Store interface {
	RecordReader
	SummaryWriter
}

// EntryWriter records raw mood and spending entries.
type EntryWriter interface {
	SaveMood(ctx context.Context, e *model.MoodEntry) error
	SaveSpending(ctx context.Context, e *model.SpendingEntry) error
}

type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
}
