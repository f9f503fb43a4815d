package storage

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	generations map[string][]Generation
	champions   map[string]Champion
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)
	s.generations = make(map[string][]Generation)
	s.champions = make(map[string]Champion)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return errNotInitialized
	}

	run.CodecVersion = CurrentCodecVersion
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

// ListRuns returns every run, oldest first.
func (s *MemoryStore) ListRuns(_ context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sortRuns(runs)
	return runs, nil
}

func (s *MemoryStore) SaveGeneration(_ context.Context, generation Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return errNotInitialized
	}

	history := s.generations[generation.RunID]
	i, found := slices.BinarySearchFunc(history, generation.Generation, func(g Generation, n int) int {
		return g.Generation - n
	})
	if found {
		history[i] = generation
	} else {
		history = slices.Insert(history, i, generation)
	}
	s.generations[generation.RunID] = history
	return nil
}

// GetGenerations returns the summaries of a run in generation order.
func (s *MemoryStore) GetGenerations(_ context.Context, runID string) ([]Generation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.generations[runID]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(history), true, nil
}

func (s *MemoryStore) SaveChampion(_ context.Context, champion Champion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return errNotInitialized
	}

	champion.CodecVersion = CurrentCodecVersion
	s.champions[champion.RunID] = copyChampion(champion)
	return nil
}

func (s *MemoryStore) GetChampion(_ context.Context, runID string) (Champion, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	champion, ok := s.champions[runID]
	if !ok {
		return Champion{}, false, nil
	}
	return copyChampion(champion), true, nil
}

func copyChampion(c Champion) Champion {
	c.Genome.Nodes = slices.Clone(c.Genome.Nodes)
	c.Genome.Connections = slices.Clone(c.Genome.Connections)
	return c
}

func sortRuns(runs []Run) {
	slices.SortFunc(runs, func(a, b Run) int {
		if c := a.Started.Compare(b.Started); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}
