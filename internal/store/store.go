// Package store persists users, their recent entries and the derived
// stress summaries in MySQL through GORM.
//
// Summary writes are merge-writes: a row is inserted when missing,
// otherwise only model.SummaryColumns are replaced and every other column
// (created_at, columns owned by other writers) is left as it was.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stress-index/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a point lookup matches no row.
var ErrNotFound = errors.New("record not found")

type GormStore struct{ db *gorm.DB }

func New(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user %s: %w", id, err)
	}
	return &u, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return &u, nil
}

// GetProfile returns nil, nil when the user has no profile row.
func (s *GormStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %s: %w", userID, err)
	}
	return &p, nil
}

// ListMoodEntries returns entries strictly newer than since.
func (s *GormStore) ListMoodEntries(ctx context.Context, userID string, since time.Time) ([]model.MoodEntry, error) {
	var entries []model.MoodEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND time > ?", userID, since).
		Order("time").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query mood entries %s: %w", userID, err)
	}
	return entries, nil
}

// ListSpendingEntries returns entries strictly newer than since.
func (s *GormStore) ListSpendingEntries(ctx context.Context, userID string, since time.Time) ([]model.SpendingEntry, error) {
	var entries []model.SpendingEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND time > ?", userID, since).
		Order("time").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query spending entries %s: %w", userID, err)
	}
	return entries, nil
}

// ListUserIDs returns every user regardless of role.
func (s *GormStore) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&model.User{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

func (s *GormStore) MergeUserSummary(ctx context.Context, userID string, sum model.StressSummary) error {
	row := model.UserSummary{UserID: userID, StressSummary: sum}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(model.SummaryColumns),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("merge user summary %s: %w", userID, err)
	}
	return nil
}

func (s *GormStore) MergeInstitutionSummary(ctx context.Context, universityID, userID string, sum model.StressSummary) error {
	row := model.InstitutionSummary{UniversityID: universityID, UserID: userID, StressSummary: sum}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "university_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(model.SummaryColumns),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("merge institution summary %s/%s: %w", universityID, userID, err)
	}
	return nil
}

// UpsertInstitutionStudent creates the membership row once and refreshes
// last_updated on every later call.
func (s *GormStore) UpsertInstitutionStudent(ctx context.Context, universityID, userID string, at time.Time) error {
	row := model.InstitutionStudent{UniversityID: universityID, UserID: userID, LastUpdated: at}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "university_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_updated"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert institution student %s/%s: %w", universityID, userID, err)
	}
	return nil
}

// SaveMood and SaveSpending record raw entries; they feed later scoring runs.
func (s *GormStore) SaveMood(ctx context.Context, e *model.MoodEntry) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert mood entry: %w", err)
	}
	return nil
}

func (s *GormStore) SaveSpending(ctx context.Context, e *model.SpendingEntry) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert spending entry: %w", err)
	}
	return nil
}
