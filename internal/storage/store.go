// Package storage persists the outcome of evolutionary runs: one record per
// run, a summary per evaluated generation and the winning genome.
package storage

import (
	"context"
	"time"

	"github.com/Up-North-Coding/NEAT/neat"
)

// Versioned tags every stored payload with the codec that wrote it.
type Versioned struct {
	CodecVersion int `json:"codec_version"`
}

// Run describes one evolutionary run.
type Run struct {
	Versioned
	ID          string    `json:"id"`
	Experiment  string    `json:"experiment"`
	Started     time.Time `json:"started"`
	Finished    time.Time `json:"finished,omitzero"`
	Seed        int64     `json:"seed"`
	Generations int       `json:"generations"`
	Solved      bool      `json:"solved"`
	BestFitness float64   `json:"best_fitness"`
}

// Generation summarizes one evaluated generation of a run.
type Generation struct {
	RunID                  string  `json:"run_id"`
	Generation             int     `json:"generation"`
	Organisms              int     `json:"organisms"`
	Species                int     `json:"species"`
	BestFitness            float64 `json:"best_fitness"`
	MeanFitness            float64 `json:"mean_fitness"`
	StdDevFitness          float64 `json:"stddev_fitness"`
	CompatibilityThreshold float64 `json:"compatibility_threshold"`
}

// GenerationFromStats converts population statistics into a stored summary.
func GenerationFromStats(runID string, s neat.Stats) Generation {
	return Generation{
		RunID:                  runID,
		Generation:             s.Generation,
		Organisms:              s.Organisms,
		Species:                s.Species,
		BestFitness:            s.BestFitness,
		MeanFitness:            s.MeanFitness,
		StdDevFitness:          s.StdDevFitness,
		CompatibilityThreshold: s.Threshold,
	}
}

// Champion is the best organism found by a run.
type Champion struct {
	Versioned
	RunID      string            `json:"run_id"`
	Generation int               `json:"generation"`
	Fitness    float64           `json:"fitness"`
	Genome     neat.GenomeRecord `json:"genome"`
}

// Store persists runs, their generation summaries and champions.
// Saving an existing key replaces it.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]Run, error)
	SaveGeneration(ctx context.Context, generation Generation) error
	GetGenerations(ctx context.Context, runID string) ([]Generation, bool, error)
	SaveChampion(ctx context.Context, champion Champion) error
	GetChampion(ctx context.Context, runID string) (Champion, bool, error)
}
