package neat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Population holds the state of the NEAT evolutionary process.
type Population struct {
	Organisms  []*Organism
	Species    []*Species
	Size       int     // Target number of organisms.
	Config     *Config // Private copy; the compatibility threshold drifts during a run.
	Generation int

	seed          Topology
	nextSpeciesID int
	logger        *slog.Logger
}

// Option configures a Population.
type Option func(*Population)

// WithLogger sets the structured logger used for generation summaries and
// speciation events. Logging is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Population) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// From creates a population of config.Neat.PopulationSize organisms, each a
// weight-perturbed copy of the seed topology, and speciates it.
func From(config *Config, seed Topology, opts ...Option) (*Population, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cfg := config.Copy()
	if cfg.Innovation == nil {
		cfg.Innovation = NewInnovation(0)
	}

	p := &Population{
		Size:       cfg.Neat.PopulationSize,
		Config:     cfg,
		Generation: 1,
		seed:       seed,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.populate(); err != nil {
		return nil, err
	}
	return p, nil
}

// populate fills the population from the seed topology and speciates it.
func (p *Population) populate() error {
	genome, err := p.seed.Genome(p.Config)
	if err != nil {
		return fmt.Errorf("invalid seed topology: %w", err)
	}
	origin := NewOrganism(genome, 0, 0)

	p.Organisms = make([]*Organism, 0, p.Size)
	p.Species = nil
	for range p.Size {
		o := origin.Copy(0, 0)
		o.Genome.MutateConnectionsWeights(p.Config)
		p.Organisms = append(p.Organisms, o)
	}
	p.speciate()
	return nil
}

func (p *Population) speciate() {
	for _, o := range p.Organisms {
		p.Species = SpeciateOrganism(p.Config, o, p.Species)
	}
	p.assignSpeciesIDs()
}

// assignSpeciesIDs numbers the species created since the last call.
func (p *Population) assignSpeciesIDs() {
	for _, s := range p.Species {
		if s.ID != 0 {
			continue
		}
		p.nextSpeciesID++
		s.ID = p.nextSpeciesID
		p.logger.Debug("species created", "species", s.ID, "generation", p.Generation)
	}
}

// SuperChamp returns the organism with the highest fitness, or nil for an
// empty population. Ties go to the earliest organism.
func (p *Population) SuperChamp() *Organism {
	var champ *Organism
	for _, o := range p.Organisms {
		if champ == nil || o.Fitness > champ.Fitness {
			champ = o
		}
	}
	return champ
}

// Epoch advances the population by one generation: it adjusts species
// fitness, culls the weakest organisms, reproduces every species and
// replaces the old generation with the offspring.
func (p *Population) Epoch() {
	p.Generation++
	cfg := p.Config

	p.adjustCompatibilityThreshold()

	overallAverage := 0.0
	for _, s := range p.Species {
		s.AdjustFitness(cfg)
		overallAverage += s.AverageFitness
	}

	survivors := p.Organisms[:0]
	for _, o := range p.Organisms {
		if o.Kill {
			o.Species.RemoveOrganism(o)
			continue
		}
		if overallAverage > 0 {
			o.ExpectedOffspring = roundInt(o.OriginalFitness / overallAverage)
		} else {
			o.ExpectedOffspring = 0
		}
		survivors = append(survivors, o)
	}
	clear(p.Organisms[len(survivors):])
	p.Organisms = survivors

	sorted := slices.Clone(p.Species)
	slices.SortStableFunc(sorted, descending(byMaxFitness))
	superChamp := p.SuperChamp()

	for _, s := range slices.Clone(sorted) {
		if overallAverage > 0 {
			s.ExpectedOffspring = roundInt(s.AverageFitness / overallAverage * float64(p.Size))
		} else {
			s.ExpectedOffspring = roundInt(float64(p.Size) / float64(len(p.Species)))
		}
		sorted = s.Reproduce(cfg, p.Generation, superChamp, sorted)
	}
	// Species founded by offspring exist only in sorted so far.
	for _, s := range sorted {
		if s.ID == 0 {
			p.Species = append(p.Species, s)
		}
	}

	for _, o := range p.Organisms {
		o.Species.RemoveOrganism(o)
	}

	p.Organisms = p.Organisms[:0]
	alive := p.Species[:0]
	for _, s := range p.Species {
		if len(s.Organisms) == 0 {
			if s.ID != 0 {
				p.logger.Debug("species emptied", "species", s.ID, "generation", p.Generation)
			}
			continue
		}
		p.Organisms = append(p.Organisms, s.Organisms...)
		s.Age++
		alive = append(alive, s)
	}
	clear(p.Species[len(alive):])
	p.Species = alive
	p.assignSpeciesIDs()
}

// adjustCompatibilityThreshold nudges the threshold so the number of species
// drifts towards the configured target.
func (p *Population) adjustCompatibilityThreshold() {
	sc := &p.Config.Species
	if !sc.AdjustCompatibilityThreshold || len(p.Species) == sc.CompatibilityModifierTarget {
		return
	}
	if len(p.Species) > sc.CompatibilityModifierTarget {
		sc.CompatibilityThreshold += sc.CompatibilityModifier
	} else {
		sc.CompatibilityThreshold -= sc.CompatibilityModifier
	}
	sc.CompatibilityThreshold = max(sc.CompatibilityThreshold, sc.CompatibilityModifier)
	p.logger.Debug("compatibility threshold adjusted",
		"threshold", sc.CompatibilityThreshold, "species", len(p.Species), "generation", p.Generation)
}

// Run evaluates the population with fitness and evolves it until an
// organism reaches the fitness threshold or maxGenerations generations have
// been evaluated. maxGenerations <= 0 runs until a solution is found or ctx
// is done. onProgress may be nil.
//
// Running out of generations returns an error wrapping ErrNoSolution.
func (p *Population) Run(ctx context.Context, fitness FitnessFunc, maxGenerations int, onProgress ProgressFunc) (*Organism, error) {
	for evaluated := 0; maxGenerations <= 0 || evaluated < maxGenerations; evaluated++ {
		if err := p.evaluate(ctx, fitness); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("run stopped at generation %d: %w", p.Generation, err)
			}
			return nil, fmt.Errorf("evaluation failed in generation %d: %w", p.Generation, err)
		}

		stats := p.Stats()
		if winner := p.winner(); winner != nil {
			p.logger.Info("solution found", "generation", p.Generation, "fitness", winner.Fitness,
				"nodes", winner.Genome.NodeCount(), "connections", winner.Genome.ConnectionCount())
			return winner, nil
		}
		p.logger.Info("generation evaluated", "generation", stats.Generation, "species", stats.Species,
			"best", stats.BestFitness, "mean", stats.MeanFitness, "stdev", stats.StdDevFitness)

		if onProgress != nil {
			onProgress(p)
		}
		p.Epoch()

		if len(p.Organisms) == 0 {
			if !p.Config.Neat.ResetOnExtinction {
				return nil, fmt.Errorf("%w in generation %d", ErrPopulationExtinct, p.Generation)
			}
			p.logger.Warn("population extinct, reseeding", "generation", p.Generation)
			if err := p.populate(); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("%w after %d generations", ErrNoSolution, maxGenerations)
}

// Stats summarizes the fitness of the current generation.
type Stats struct {
	Generation    int
	Organisms     int
	Species       int
	BestFitness   float64
	MeanFitness   float64
	StdDevFitness float64
	Threshold     float64 // Current compatibility threshold.
}

// Stats computes fitness statistics over the current organisms.
func (p *Population) Stats() Stats {
	s := Stats{
		Generation: p.Generation,
		Organisms:  len(p.Organisms),
		Species:    len(p.Species),
		Threshold:  p.Config.Species.CompatibilityThreshold,
	}
	if len(p.Organisms) == 0 {
		return s
	}
	fitness := make([]float64, 0, len(p.Organisms))
	for _, o := range p.Organisms {
		fitness = append(fitness, o.Fitness)
	}
	s.BestFitness = slices.Max(fitness)
	if len(fitness) > 1 {
		s.MeanFitness, s.StdDevFitness = stat.MeanStdDev(fitness, nil)
	} else {
		s.MeanFitness = fitness[0]
	}
	return s
}
