package memory

import (
	"context"
	"fmt"
	"sync"

	"emberfall/domain"
	"emberfall/encounter"
)

// RunStore はダンジョンラン状態のインメモリ実装です。
type RunStore struct {
	mu   sync.Mutex
	runs map[string]domain.DungeonRunState
}

func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]domain.DungeonRunState)}
}

func (s *RunStore) Run(ctx context.Context, playerID string) (domain.DungeonRunState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[playerID]
	if !ok {
		return domain.DungeonRunState{}, fmt.Errorf("%w: %s", encounter.ErrNoActiveRun, playerID)
	}
	return run, nil
}

func (s *RunStore) Put(ctx context.Context, run domain.DungeonRunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.PlayerID] = run
	return nil
}

func (s *RunStore) Delete(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, playerID)
	return nil
}

var _ encounter.RunStore = (*RunStore)(nil)
