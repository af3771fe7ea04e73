package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stress-index/internal/model"
	"stress-index/internal/stress"
)

// SummaryExporter receives every published summary. Export is best
// effort and never fails a publish.
type SummaryExporter interface {
	ExportSummary(ctx context.Context, userID, universityID string, rec model.StressSummary)
}

type Publisher struct {
	store    SummaryWriter
	exporter SummaryExporter
}

// NewPublisher accepts a nil exporter.
func NewPublisher(w SummaryWriter, exporter SummaryExporter) *Publisher {
	return &Publisher{store: w, exporter: exporter}
}

// Publish merge-writes sum to the user's own slot and, when universityID
// is set, to the institution mirror and membership stub. The personal
// write is not rolled back if the institution side fails.
func (p *Publisher) Publish(ctx context.Context, userID, universityID string, sum stress.Summary, at time.Time) error {
	rec := Record(sum, at)

	if err := p.store.MergeUserSummary(ctx, userID, rec); err != nil {
		return err
	}

	if universityID != "" {
		var wg sync.WaitGroup
		var summaryErr, stubErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			summaryErr = p.store.MergeInstitutionSummary(ctx, universityID, userID, rec)
		}()
		go func() {
			defer wg.Done()
			stubErr = p.store.UpsertInstitutionStudent(ctx, universityID, userID, at)
		}()
		wg.Wait()
		if err := errors.Join(summaryErr, stubErr); err != nil {
			return fmt.Errorf("institution %s: %w", universityID, err)
		}
	}

	if p.exporter != nil {
		p.exporter.ExportSummary(ctx, userID, universityID, rec)
	}
	return nil
}

// Record converts a scored summary into its stored form stamped at at.
func Record(sum stress.Summary, at time.Time) model.StressSummary {
	rec := model.StressSummary{
		FinancialStressIndex: sum.Score,
		RiskLevel:            string(sum.RiskLevel),
		MoneyPersonality:     string(sum.Personality),
		TriggerTypes:         sum.Triggers,
		LastUpdated:          at,
	}
	if sum.Window != stress.WindowNone {
		w := string(sum.Window)
		rec.PredictedRiskWindow = &w
	}
	return rec
}
