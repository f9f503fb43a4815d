package neat

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speciesWith(t *testing.T, cfg *Config, fitness ...float64) *Species {
	t.Helper()
	s := NewSpecies(1)
	g := seedGenome(t, cfg)
	for _, f := range fitness {
		s.AddOrganism(NewOrganism(g.Copy(), f, 0))
	}
	return s
}

func TestAddOrganism(t *testing.T) {
	cfg := testConfig()
	s := NewSpecies(1)
	first := NewOrganism(seedGenome(t, cfg), 0, 0)
	second := NewOrganism(seedGenome(t, cfg), 0, 0)

	s.AddOrganism(first)
	s.AddOrganism(second)
	assert.Same(t, first, s.Specimen())
	assert.Same(t, s, second.Species)
	assert.Len(t, s.Organisms, 2)

	assert.Panics(t, func() { s.AddOrganism(nil) })
}

func TestRemoveOrganism(t *testing.T) {
	cfg := testConfig()
	s := speciesWith(t, cfg, 1, 2, 3)
	middle := s.Organisms[1]

	s.RemoveOrganism(middle)
	require.Len(t, s.Organisms, 2)
	assert.NotContains(t, s.Organisms, middle)
	assert.Equal(t, 1.0, s.Organisms[0].Fitness)
	assert.Equal(t, 3.0, s.Organisms[1].Fitness)

	s.RemoveOrganism(middle)
	assert.Len(t, s.Organisms, 2)
}

func TestAdjustFitnessSortsAndCulls(t *testing.T) {
	cfg := testConfig()
	s := speciesWith(t, cfg, 20, 10, 30)

	s.AdjustFitness(cfg)

	originals := []float64{}
	for _, o := range s.Organisms {
		originals = append(originals, o.OriginalFitness)
	}
	assert.Equal(t, []float64{30, 20, 10}, originals)
	assert.InDelta(t, 10.0, s.Organisms[0].Fitness, 1e-12)
	assert.InDelta(t, 20.0/3, s.Organisms[1].Fitness, 1e-12)

	assert.False(t, s.Organisms[0].Kill)
	assert.True(t, s.Organisms[1].Kill)
	assert.True(t, s.Organisms[2].Kill)

	assert.InDelta(t, 20.0, s.AverageFitness, 1e-12)
	assert.Equal(t, 30.0, s.MaxFitness)
	assert.Equal(t, 0, s.AgeOfLastImprovement)
	assert.Contains(t, s.Organisms, s.Specimen())
	assert.Same(t, s.Organisms[0], s.Champion())
}

func TestAdjustFitnessSurvivalThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Species.SurvivalThreshold = 0.5
	s := speciesWith(t, cfg, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	s.AdjustFitness(cfg)

	killed := 0
	for i, o := range s.Organisms {
		if o.Kill {
			killed++
			assert.GreaterOrEqual(t, i, 6)
		}
	}
	// floor(10 * 0.5 + 1) = 6 survivors
	assert.Equal(t, 4, killed)
	assert.True(t, slices.IsSortedFunc(s.Organisms, descending(byFitness)))
}

func TestAdjustFitnessPenalizesStagnation(t *testing.T) {
	cfg := testConfig()
	s := speciesWith(t, cfg, 100)
	s.Age = 20
	s.AgeOfLastImprovement = 0
	s.MaxFitness = 200

	s.AdjustFitness(cfg)
	assert.True(t, s.Extinct)
	assert.InDelta(t, 1.0, s.Organisms[0].Fitness, 1e-12)
	assert.Equal(t, 0, s.AgeOfLastImprovement, "no improvement recorded")
}

func TestAdjustFitnessBoostsYoungSpecies(t *testing.T) {
	cfg := testConfig()
	cfg.Species.AgeSignificance = 2
	young := speciesWith(t, cfg, 3, 3)
	old := speciesWith(t, cfg, 3, 3)
	old.Age, old.AgeOfLastImprovement = 11, 11

	young.AdjustFitness(cfg)
	old.AdjustFitness(cfg)

	assert.InDelta(t, 3.0, young.Organisms[0].Fitness, 1e-12)
	assert.InDelta(t, 1.5, old.Organisms[0].Fitness, 1e-12)
	assert.Equal(t, 11, old.AgeOfLastImprovement)
}

func TestAdjustFitnessFloorsSharedFitness(t *testing.T) {
	cfg := testConfig()
	s := speciesWith(t, cfg, 0, -5)
	s.AdjustFitness(cfg)
	for _, o := range s.Organisms {
		assert.InDelta(t, 0.0001/2, o.Fitness, 1e-15)
	}
}

func TestGetRandomSpeciesFavorsTheFront(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	assert.Nil(t, GetRandomSpecies(r, nil))

	sorted := []*Species{NewSpecies(1), NewSpecies(2), NewSpecies(3), NewSpecies(4), NewSpecies(5)}
	counts := map[int]int{}
	for range 5000 {
		s := GetRandomSpecies(r, sorted)
		require.NotNil(t, s)
		counts[s.ID]++
	}
	for id := 2; id <= 5; id++ {
		assert.Greater(t, counts[1], counts[id], "species %d", id)
	}

	single := []*Species{NewSpecies(9)}
	assert.Same(t, single[0], GetRandomSpecies(r, single))
}

func TestSpeciateOrganism(t *testing.T) {
	cfg := testConfig()
	g := seedGenome(t, cfg)

	all := SpeciateOrganism(cfg, NewOrganism(g.Copy(), 0, 0), nil)
	require.Len(t, all, 1)

	all = SpeciateOrganism(cfg, NewOrganism(g.Copy(), 0, 0), all)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Organisms, 2)

	cfg.Species.CompatibilityThreshold = 0
	stranger := NewOrganism(g.Copy(), 0, 0)
	all = SpeciateOrganism(cfg, stranger, all)
	require.Len(t, all, 2)
	assert.Same(t, all[1], stranger.Species)
	assert.Equal(t, 0, all[1].ID, "ids are assigned by the population")
}

func TestSpeciateOrganismSkipsEmptySpecies(t *testing.T) {
	cfg := testConfig()
	g := seedGenome(t, cfg)
	emptied := speciesWith(t, cfg, 1)
	emptied.RemoveOrganism(emptied.Organisms[0])

	all := SpeciateOrganism(cfg, NewOrganism(g, 0, 0), []*Species{emptied})
	require.Len(t, all, 2)
	assert.Empty(t, emptied.Organisms)
}

func TestReproduceProducesExpectedOffspring(t *testing.T) {
	cfg := testConfig()
	s := speciesWith(t, cfg, 4, 3, 2, 1)
	s.AdjustFitness(cfg)
	s.ExpectedOffspring = 7
	parents := slices.Clone(s.Organisms)

	all := s.Reproduce(cfg, 2, nil, []*Species{s})

	babies := 0
	for _, sp := range all {
		for _, o := range sp.Organisms {
			if !slices.Contains(parents, o) {
				babies++
				assert.Equal(t, 2, o.Generation)
				assert.Same(t, sp, o.Species)
			}
		}
	}
	assert.Equal(t, 7, babies)
	assert.Subset(t, s.Organisms, parents, "old members stay until the epoch removes them")
}

func TestReproduceNothingExpected(t *testing.T) {
	cfg := testConfig()
	s := speciesWith(t, cfg, 1, 2)
	all := s.Reproduce(cfg, 2, nil, []*Species{s})
	assert.Len(t, all, 1)
	assert.Len(t, s.Organisms, 2)
}

func TestReproduceClonesSuperChamp(t *testing.T) {
	cfg := testConfig()
	s := speciesWith(t, cfg, 9, 1)
	s.AdjustFitness(cfg)
	champ := s.Champion()
	champ.ExpectedOffspring = 2
	s.ExpectedOffspring = 2

	all := s.Reproduce(cfg, 3, champ, []*Species{s})
	assert.Equal(t, 0, champ.ExpectedOffspring)

	clones := 0
	for _, sp := range all {
		for _, o := range sp.Organisms {
			if o != champ && o.Generation == 3 {
				assert.Equal(t, champ.Genome.ID, o.Genome.ID)
				assert.Equal(t, champ.OriginalFitness, o.OriginalFitness)
				clones++
			}
		}
	}
	assert.Equal(t, 2, clones)
}

func TestInterspeciesMateFallsBackToOwnChampion(t *testing.T) {
	cfg := testConfig()
	a := speciesWith(t, cfg, 5, 1)
	a.AdjustFitness(cfg)

	r := rand.New(rand.NewSource(11))
	for range 20 {
		assert.Same(t, a.Champion(), a.interspeciesMate(r, []*Species{a}))
	}
}

func TestInterspeciesMatePrefersOtherSpecies(t *testing.T) {
	cfg := testConfig()
	a := speciesWith(t, cfg, 5, 1)
	b := speciesWith(t, cfg, 7, 2)
	a.AdjustFitness(cfg)
	b.AdjustFitness(cfg)

	r := rand.New(rand.NewSource(11))
	other := 0
	for range 1000 {
		mate := a.interspeciesMate(r, []*Species{b, a})
		switch mate {
		case b.Champion():
			other++
		case a.Champion():
		default:
			t.Fatalf("unexpected mate %v", mate)
		}
	}
	// Five tries all landing on a happen about one time in twenty.
	assert.Greater(t, other, 850)
	assert.Less(t, other, 1000)
}

// crossoverOnlyConfig makes every baby a crossover and every mutation a
// weight perturbation of all enabled genes.
func crossoverOnlyConfig() *Config {
	cfg := testConfig()
	cfg.Reproduction.MutateOnlyProbability = 0
	cfg.Reproduction.InterspeciesMateRate = 0
	cfg.Genome.MutateAddNodeProbability = 0
	cfg.Genome.MutateAddConnectionProbability = 0
	cfg.Genome.MutateConnectionWeightsProbability = 1
	cfg.Genome.MutateToggleEnableProbability = 0
	cfg.Genome.ReEnableGeneProbability = 0
	return cfg
}

func babiesOf(all []*Species, parents []*Organism) []*Organism {
	var babies []*Organism
	for _, sp := range all {
		for _, o := range sp.Organisms {
			if !slices.Contains(parents, o) {
				babies = append(babies, o)
			}
		}
	}
	return babies
}

func TestReproduceCopiesChampionOnceForLargeSpecies(t *testing.T) {
	cfg := crossoverOnlyConfig()
	s := speciesWith(t, cfg, 4, 3, 2, 1)
	s.AdjustFitness(cfg)
	s.ExpectedOffspring = 7
	champ := s.Champion()
	parents := slices.Clone(s.Organisms)

	babies := babiesOf(s.Reproduce(cfg, 2, nil, []*Species{s}), parents)
	require.Len(t, babies, 7)

	var copies []*Organism
	for _, b := range babies {
		if Compatibility(b.Genome, champ.Genome, cfg) == 0 {
			copies = append(copies, b)
		}
	}
	require.Len(t, copies, 1)
	assert.Equal(t, champ.Genome.ID, copies[0].Genome.ID)
	assert.Equal(t, champ.Genome.Record().Connections, copies[0].Genome.Record().Connections)
	assert.NotSame(t, champ.Genome, copies[0].Genome)
}

func TestReproduceMutatesCrossoverOfIdenticalParents(t *testing.T) {
	cfg := crossoverOnlyConfig()
	s := speciesWith(t, cfg, 4, 3, 2, 1)
	s.AdjustFitness(cfg)
	s.ExpectedOffspring = 5
	parents := slices.Clone(s.Organisms)
	require.Zero(t, Compatibility(parents[0].Genome, parents[1].Genome, cfg))

	babies := babiesOf(s.Reproduce(cfg, 2, nil, []*Species{s}), parents)
	require.Len(t, babies, 5)
	for _, b := range babies {
		assert.Equal(t, 3, b.Genome.ConnectionCount())
		assert.Greater(t, Compatibility(b.Genome, parents[0].Genome, cfg), 0.0)
	}
}
