// Package assessment drives PHQ-9 screenings that outlive a single call:
// in-progress sessions are parked in a cache and scored ones go to history.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/mindsync/internal/cache"
	"github.com/alexanderramin/mindsync/internal/domain"
	"github.com/alexanderramin/mindsync/internal/observability"
	"github.com/alexanderramin/mindsync/internal/repository"
	"github.com/alexanderramin/mindsync/internal/screening"
)

// ErrScreeningNotFound is returned for unknown, finished or expired screening ids.
var ErrScreeningNotFound = errors.New("screening not found")

// Progress is returned after starting or answering a cached screening.
// RecordID is set once a scored result has been stored.
type Progress struct {
	ScreeningID string         `json:"screening_id"`
	Step        screening.Step `json:"step"`
	RecordID    string         `json:"record_id,omitempty"`
}

// Service runs cached screenings. Answers to the same screening id are
// applied one at a time within a process. Deployments sharing a Redis cache
// across processes must route each screening id to one caller at a time; a
// second save of the same screening is refused by the history store.
type Service struct {
	cache    cache.ScreeningCache
	results  repository.ScreeningRepo
	observer observability.UseCaseObserver
	now      func() time.Time
	locks    *idLocks
}

type Option func(*Service)

func WithObserver(obs observability.UseCaseObserver) Option {
	return func(s *Service) { s.observer = observability.ObserverOrNoop(obs) }
}

func NewService(c cache.ScreeningCache, results repository.ScreeningRepo, opts ...Option) *Service {
	s := &Service{
		cache:    c,
		results:  results,
		observer: observability.NoopUseCaseObserver{},
		now:      func() time.Time { return time.Now().UTC() },
		locks:    newIDLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a screening and returns the first question.
func (s *Service) Start(ctx context.Context) (*Progress, error) {
	id := uuid.New().String()
	sess := screening.NewSession()
	if err := s.cache.Set(ctx, id, sess.Snapshot()); err != nil {
		return nil, fmt.Errorf("parking screening: %w", err)
	}
	q, _ := sess.CurrentQuestion()
	return &Progress{
		ScreeningID: id,
		Step:        screening.Step{Kind: screening.StepNext, Index: sess.Index(), Question: q},
	}, nil
}

// Answer submits one raw answer. Scored screenings are saved and removed
// from the cache, and so are abandoned ones without being saved.
func (s *Service) Answer(ctx context.Context, id, raw string) (progress *Progress, err error) {
	startedAt := time.Now()
	fields := map[string]any{"screening_id": id}
	defer func() {
		s.observer.ObserveUseCase(ctx, observability.UseCaseEvent{
			Name:      "screening-answer",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	unlock := s.locks.lock(id)
	defer unlock()

	snap, err := s.cache.Get(ctx, id)
	if errors.Is(err, cache.ErrMiss) {
		return nil, fmt.Errorf("screening %s: %w", id, ErrScreeningNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading screening %s: %w", id, err)
	}

	sess, err := screening.Restore(snap)
	if err != nil {
		_ = s.cache.Delete(ctx, id)
		return nil, fmt.Errorf("screening %s: %w", id, err)
	}

	step, err := sess.Submit(raw)
	if err != nil {
		return nil, err
	}
	fields["step"] = string(step.Kind)
	progress = &Progress{ScreeningID: id, Step: step}

	switch step.Kind {
	case screening.StepNext:
		if err = s.cache.Set(ctx, id, sess.Snapshot()); err != nil {
			return nil, fmt.Errorf("parking screening: %w", err)
		}
	case screening.StepRetry:
		// Nothing changed, but refresh the TTL.
		if err = s.cache.Set(ctx, id, snap); err != nil {
			return nil, fmt.Errorf("parking screening: %w", err)
		}
	case screening.StepScored:
		var rec *domain.ScreeningRecord
		rec, err = s.save(ctx, id, domain.ChannelHTTP, *step.Result)
		if err != nil {
			return nil, err
		}
		progress.RecordID = rec.ID
		fields["total"] = step.Result.Total
		_ = s.cache.Delete(ctx, id)
	case screening.StepAbandoned:
		_ = s.cache.Delete(ctx, id)
	}
	return progress, nil
}

// Save stores a scored result completed elsewhere, such as the CLI.
func (s *Service) Save(ctx context.Context, channel domain.Channel, res screening.Result) (*domain.ScreeningRecord, error) {
	return s.save(ctx, uuid.New().String(), channel, res)
}

func (s *Service) save(ctx context.Context, id string, channel domain.Channel, res screening.Result) (*domain.ScreeningRecord, error) {
	rec := &domain.ScreeningRecord{
		ID:          id,
		Channel:     channel,
		Total:       res.Total,
		Band:        string(res.Band),
		Answers:     res.Answers,
		CompletedAt: s.now(),
	}
	if err := s.results.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving screening result: %w", err)
	}
	return rec, nil
}

// History lists stored results, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*domain.ScreeningRecord, error) {
	return s.results.ListRecent(ctx, limit)
}
