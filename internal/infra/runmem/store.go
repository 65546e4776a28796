package runmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

// Store keeps transfer runs in memory. It backs the API when no database
// is configured; contents do not survive a restart.
type Store struct {
	mu   sync.RWMutex
	runs map[string]*domain.TransferRun
}

func New() *Store {
	return &Store{runs: make(map[string]*domain.TransferRun)}
}

func (s *Store) CreateRun(_ context.Context, run domain.TransferRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := run
	stored.Outcomes = append([]domain.DocumentOutcome(nil), run.Outcomes...)
	s.runs[run.ID] = &stored
	return nil
}

func (s *Store) FinishRun(_ context.Context, runID, status, errorCode string, documentCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	run.Status = status
	run.ErrorCode = errorCode
	run.DocumentCount = documentCount
	run.FinishedAt = &now
	return nil
}

func (s *Store) AppendOutcome(_ context.Context, runID string, outcome domain.DocumentOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return domain.ErrNotFound
	}
	run.Outcomes = append(run.Outcomes, outcome)
	return nil
}

func (s *Store) GetRun(_ context.Context, runID string) (domain.TransferRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return domain.TransferRun{}, domain.ErrNotFound
	}
	out := *run
	out.Outcomes = append([]domain.DocumentOutcome(nil), run.Outcomes...)
	return out, nil
}

func (s *Store) ListRuns(_ context.Context, limit int) ([]domain.TransferRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	out := make([]domain.TransferRun, 0, len(s.runs))
	for _, run := range s.runs {
		copied := *run
		copied.Outcomes = nil
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
