package neat

import (
	"fmt"
	"slices"
)

// Species represents a group of genetically similar organisms. It tracks
// membership only; the population owns the organisms.
type Species struct {
	ID        int         // Unique identifier, assigned by the population.
	Organisms []*Organism // Members, sorted by fitness once adjusted.

	Extinct              bool // Stagnated past the dropoff age.
	Age                  int
	AgeOfLastImprovement int
	MaxFitness           float64 // Best original fitness ever seen.
	AverageFitness       float64 // Mean original fitness of the last adjustment.
	ExpectedOffspring    int

	specimen *Organism
}

// NewSpecies creates an empty species.
func NewSpecies(id int) *Species {
	return &Species{ID: id}
}

// String returns a short summary of the species.
func (s *Species) String() string {
	return fmt.Sprintf("Species(ID: %d, Size: %d, Age: %d, MaxFitness: %.4f)", s.ID, len(s.Organisms), s.Age, s.MaxFitness)
}

// AddOrganism appends o and points its Species at s. The first organism
// becomes the specimen. Passing nil is a programming error.
func (s *Species) AddOrganism(o *Organism) {
	if o == nil {
		panic("neat: Species.AddOrganism requires an organism")
	}
	if s.specimen == nil {
		s.specimen = o
	}
	s.Organisms = append(s.Organisms, o)
	o.Species = s
}

// RemoveOrganism drops o from the members, keeping their order.
func (s *Species) RemoveOrganism(o *Organism) {
	if i := slices.Index(s.Organisms, o); i != -1 {
		s.Organisms = slices.Delete(s.Organisms, i, i+1)
	}
}

// Specimen returns the organism new members are compared with.
func (s *Species) Specimen() *Organism {
	return s.specimen
}

// Champion returns the first member, the fittest one after AdjustFitness.
func (s *Species) Champion() *Organism {
	if len(s.Organisms) == 0 {
		return nil
	}
	return s.Organisms[0]
}

// AdjustFitness applies stagnation penalties, the young species boost and
// fitness sharing to every member, sorts members by the adjusted fitness and
// marks everyone below the survival threshold for death.
func (s *Species) AdjustFitness(config *Config) {
	if len(s.Organisms) == 0 {
		return
	}
	sc := config.Species
	s.Extinct = s.isStagnant(sc.DropoffAge)
	count := float64(len(s.Organisms))

	originals := make([]float64, 0, len(s.Organisms))
	for _, o := range s.Organisms {
		o.OriginalFitness = o.Fitness
		o.Fitness = s.shareFitness(o.Fitness, count, sc.AgeSignificance)
		originals = append(originals, o.OriginalFitness)
	}

	slices.SortStableFunc(s.Organisms, descending(byFitness))
	s.specimen, _ = randomItem(config.random(), s.Organisms)
	s.AverageFitness = mean(originals...)

	if top := s.Organisms[0].OriginalFitness; top > s.MaxFitness {
		s.MaxFitness = top
		s.AgeOfLastImprovement = s.Age
	}

	for _, o := range s.Organisms[survivors(len(s.Organisms), sc.SurvivalThreshold):] {
		o.Kill = true
	}
}

// survivors returns how many of n ranked members escape culling. At least one always does.
func survivors(n int, threshold float64) int {
	return min(int(float64(n)*threshold+1), n)
}
