// Package stress computes the financial stress index from a user's recent
// mood and spending history. Everything here is pure: the same Input and
// evaluation time always yield the same Summary.
package stress

import (
	"math"
	"slices"
	"time"
)

// Window is the trailing period of history that feeds a score.
const Window = 7 * 24 * time.Hour

const (
	baseline = 30.0
	maxScore = 100.0

	moodWeight        = 10.0
	moneyMoodWeight   = 15.0
	moneyStressWeight = 20.0
	unplannedWeight   = 5.0

	examsBonus      = 10.0
	insecurityBonus = 15.0
	frequencyBonus  = 10.0
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

type Personality string

const (
	PersonalityBalanced      Personality = "Balanced"
	PersonalityStressSpender Personality = "Stress Spender"
	PersonalityAnxiousSaver  Personality = "Anxious Saver"
	PersonalityImpulsive     Personality = "Impulsive"
	PersonalityNewUser       Personality = "New User"
)

// RiskWindow is empty when no elevated-risk period is predicted.
type RiskWindow string

const (
	WindowNone      RiskWindow = ""
	WindowNext3Days RiskWindow = "Next 3 Days"
)

const (
	TriggerExams      = "Exams"
	TriggerInsecurity = "Financial Insecurity"
)

type MoodEntry struct {
	At                time.Time
	Mood              string
	Money             string
	MoneyCausedStress bool
}

// SpendingEntry carries the already-normalised planned flag.
type SpendingEntry struct {
	At        time.Time
	Amount    float64
	Unplanned bool
}

type Input struct {
	Triggers []string
	Moods    []MoodEntry
	Spending []SpendingEntry
}

type Summary struct {
	Score       float64
	RiskLevel   RiskLevel
	Personality Personality
	Triggers    []string
	Window      RiskWindow
}

// Score evaluates in against now.
func Score(in Input, now time.Time) Summary {
	score := baseline
	cutoff := now.Add(-Window)

	moodCount := 0
	for _, m := range in.Moods {
		if m.At.Before(cutoff) {
			continue
		}
		w := RecencyWeight(now, m.At)
		if m.Mood == "Stressed" || m.Mood == "Anxious" {
			score += moodWeight * w
		}
		if m.Money == "Worried" || m.Money == "Guilty" {
			score += moneyMoodWeight * w
		}
		if m.MoneyCausedStress {
			score += moneyStressWeight * w
		}
		moodCount++
	}

	spendCount := 0
	unplannedCount := 0
	unplannedSpend := 0.0
	for _, s := range in.Spending {
		if s.At.Before(cutoff) {
			continue
		}
		spendCount++
		if !s.Unplanned {
			continue
		}
		score += unplannedWeight * RecencyWeight(now, s.At)
		unplannedSpend += s.Amount
		unplannedCount++
	}

	triggers := slices.Clone(in.Triggers)
	if triggers == nil {
		triggers = []string{}
	}
	if slices.Contains(triggers, TriggerExams) {
		score += examsBonus
	}
	if slices.Contains(triggers, TriggerInsecurity) {
		score += insecurityBonus
	}

	if unplannedCount > 5 {
		score += frequencyBonus
	}
	if unplannedCount > 10 {
		score += frequencyBonus
	}

	score = math.Max(0, math.Min(maxScore, score))
	risk := Risk(score)

	return Summary{
		Score:       score,
		RiskLevel:   risk,
		Personality: classify(score, unplannedSpend, moodCount == 0 && spendCount == 0),
		Triggers:    triggers,
		Window:      predictWindow(risk),
	}
}

// RecencyWeight decays linearly from 1 for an entry at now to a floor of
// 0.5 once the entry is half the window old or more.
func RecencyWeight(now, at time.Time) float64 {
	daysAgo := now.Sub(at).Hours() / 24
	w := 1 - daysAgo/7
	return math.Max(0.5, math.Min(1, w))
}

// Risk buckets a score. Thresholds are exclusive.
func Risk(score float64) RiskLevel {
	switch {
	case score > 75:
		return RiskHigh
	case score > 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

func classify(score, unplannedSpend float64, empty bool) Personality {
	switch {
	case unplannedSpend > 1000 && score > 60:
		return PersonalityStressSpender
	case score > 80 && unplannedSpend < 500:
		return PersonalityAnxiousSaver
	case unplannedSpend > 2000:
		return PersonalityImpulsive
	case empty:
		return PersonalityNewUser
	default:
		return PersonalityBalanced
	}
}

func predictWindow(r RiskLevel) RiskWindow {
	if r == RiskHigh || r == RiskMedium {
		return WindowNext3Days
	}
	return WindowNone
}
