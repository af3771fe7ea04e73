package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const RoleStudent = "student"

type User struct {
	ID           string  `gorm:"primaryKey;size:64" json:"id"`
	Email        string  `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string  `json:"-"`
	Name         string  `json:"name"`
	Role         string  `gorm:"size:32;index" json:"role"`
	UniversityID *string `gorm:"size:64;index" json:"university_id,omitempty"`
}

// Institution returns the affiliated institution id, or "" when none.
func (u User) Institution() string {
	if u.UniversityID == nil {
		return ""
	}
	return *u.UniversityID
}

type Profile struct {
	UserID         string                      `gorm:"primaryKey;size:64" json:"user_id"`
	StressTriggers datatypes.JSONSlice[string] `json:"stress_triggers"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

type MoodEntry struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	UserID            string    `gorm:"size:64;index:idx_mood_user_time,priority:1" json:"user_id"`
	Time              time.Time `gorm:"index:idx_mood_user_time,priority:2" json:"time"`
	Mood              string    `gorm:"size:32" json:"mood"`
	Money             string    `gorm:"size:32" json:"money"`
	MoneyCausedStress bool      `json:"money_caused_stress"`
}

func (e *MoodEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// SpendingEntry keeps both planned columns written by older clients.
type SpendingEntry struct {
	ID        string              `gorm:"primaryKey;size:36" json:"id"`
	UserID    string              `gorm:"size:64;index:idx_spending_user_time,priority:1" json:"user_id"`
	Time      time.Time           `gorm:"index:idx_spending_user_time,priority:2" json:"time"`
	Amount    decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"amount"`
	IsPlanned *bool               `json:"is_planned,omitempty"`
	Planned   *bool               `json:"planned,omitempty"`
	Category  string              `gorm:"size:64" json:"category"`
}

func (e *SpendingEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// Unplanned is true when either planned column is explicitly false.
func (e SpendingEntry) Unplanned() bool {
	return (e.IsPlanned != nil && !*e.IsPlanned) || (e.Planned != nil && !*e.Planned)
}

// AmountValue treats a missing amount as zero.
func (e SpendingEntry) AmountValue() float64 {
	if !e.Amount.Valid {
		return 0
	}
	return e.Amount.Decimal.InexactFloat64()
}

// StressSummary holds the columns every publish rewrites. It is embedded
// by both the personal and the institution summary tables.
type StressSummary struct {
	FinancialStressIndex float64                     `json:"financial_stress_index"`
	RiskLevel            string                      `gorm:"size:16" json:"risk_level"`
	MoneyPersonality     string                      `gorm:"size:32" json:"money_personality"`
	TriggerTypes         datatypes.JSONSlice[string] `json:"trigger_types"`
	PredictedRiskWindow  *string                     `gorm:"size:32" json:"predicted_risk_window"`
	LastUpdated          time.Time                   `json:"last_updated"`
}

// SummaryColumns lists the columns a merge-write replaces.
var SummaryColumns = []string{
	"financial_stress_index",
	"risk_level",
	"money_personality",
	"trigger_types",
	"predicted_risk_window",
	"last_updated",
}

type UserSummary struct {
	UserID string `gorm:"primaryKey;size:64" json:"user_id"`
	StressSummary
	CreatedAt time.Time `json:"created_at"`
}

type InstitutionSummary struct {
	UniversityID string `gorm:"primaryKey;size:64" json:"university_id"`
	UserID       string `gorm:"primaryKey;size:64" json:"user_id"`
	StressSummary
	CreatedAt time.Time `json:"created_at"`
}

// InstitutionStudent lists a student under an institution even before a
// summary exists for them.
type InstitutionStudent struct {
	UniversityID string    `gorm:"primaryKey;size:64" json:"university_id"`
	UserID       string    `gorm:"primaryKey;size:64" json:"user_id"`
	LastUpdated  time.Time `json:"last_updated"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string               { return "users" }
func (Profile) TableName() string            { return "user_profiles" }
func (MoodEntry) TableName() string          { return "mood_entries" }
func (SpendingEntry) TableName() string      { return "spending_entries" }
func (UserSummary) TableName() string        { return "user_stress_summaries" }
func (InstitutionSummary) TableName() string { return "institution_stress_summaries" }
func (InstitutionStudent) TableName() string { return "institution_students" }

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Profile{}, &MoodEntry{}, &SpendingEntry{},
		&UserSummary{}, &InstitutionSummary{}, &InstitutionStudent{},
	}
}
