package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"stress-index/internal/logger"
	"stress-index/internal/store"
	"stress-index/internal/stress"

	"golang.org/x/sync/errgroup"
)

var (
	ErrUnauthenticated = errors.New("caller must be authenticated")
	ErrNotEligible     = errors.New("user not found or not a student")
)

// StressService runs fetch, score and publish for one user or for all.
type StressService struct {
	store       RecordReader
	fetcher     *Fetcher
	publisher   *Publisher
	concurrency int
	now         func() time.Time
}

func NewStressService(st Store, exporter SummaryExporter, concurrency int) *StressService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &StressService{
		store:       st,
		fetcher:     NewFetcher(st),
		publisher:   NewPublisher(st, exporter),
		concurrency: concurrency,
		now:         time.Now,
	}
}

func (s *StressService) SetClock(now func() time.Time) { s.now = now }

// Run executes the pipeline for userID. ok is false when the user was
// skipped because they are not a student.
func (s *StressService) Run(ctx context.Context, userID string) (stress.Summary, bool, error) {
	now := s.now()
	snap, ok, err := s.fetcher.Fetch(ctx, userID, now)
	if err != nil || !ok {
		return stress.Summary{}, false, err
	}

	sum := stress.Score(snap.Input, now)
	if err := s.publisher.Publish(ctx, userID, snap.User.Institution(), sum, s.now()); err != nil {
		return stress.Summary{}, false, fmt.Errorf("publish %s: %w", userID, err)
	}
	return sum, true, nil
}

// Recalculate scores the calling user on demand. Callers may only
// recalculate themselves.
func (s *StressService) Recalculate(ctx context.Context, callerID string) (stress.Summary, error) {
	if strings.TrimSpace(callerID) == "" {
		return stress.Summary{}, ErrUnauthenticated
	}
	sum, ok, err := s.Run(ctx, callerID)
	if errors.Is(err, store.ErrNotFound) {
		return stress.Summary{}, ErrNotEligible
	}
	if err != nil {
		return stress.Summary{}, err
	}
	if !ok {
		return stress.Summary{}, ErrNotEligible
	}
	logger.ForUser(callerID).Info("stress.recalculate", "score", sum.Score, "risk", sum.RiskLevel)
	return sum, nil
}

type UserFailure struct {
	UserID string
	Err    error
}

type SweepReport struct {
	Total    int
	Updated  int
	Skipped  int
	Failures []UserFailure
	Duration time.Duration
}

// Err joins every per-user failure, or returns nil.
func (r *SweepReport) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("user %s: %w", f.UserID, f.Err))
	}
	return errors.Join(errs...)
}

// Sweep runs the pipeline for every user with at most s.concurrency users
// in flight. A user's failure is recorded in the report and never stops
// the others; only failing to list users aborts the sweep.
func (s *StressService) Sweep(ctx context.Context) (*SweepReport, error) {
	start := time.Now()
	ids, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	report := &SweepReport{Total: len(ids)}
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			_, ok, err := s.runIsolated(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, store.ErrNotFound):
				// removed after the listing; nothing to score
				logger.ForUser(id).Info("sweep.user_gone")
				report.Skipped++
			case err != nil:
				logger.ForUser(id).Warn("sweep.user_failed", "err", err)
				report.Failures = append(report.Failures, UserFailure{UserID: id, Err: err})
			case !ok:
				report.Skipped++
			default:
				report.Updated++
			}
			return nil
		})
	}
	g.Wait()

	slices.SortFunc(report.Failures, func(a, b UserFailure) int { return strings.Compare(a.UserID, b.UserID) })
	report.Duration = time.Since(start)
	logger.Info("sweep.done", "total", report.Total, "updated", report.Updated,
		"skipped", report.Skipped, "failed", len(report.Failures), "took", report.Duration)
	return report, nil
}

func (s *StressService) runIsolated(ctx context.Context, userID string) (sum stress.Summary, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ForUser(userID).Error("sweep.user_panic", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Run(ctx, userID)
}
