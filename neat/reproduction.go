package neat

import (
	"math"
	"math/rand"
	"slices"
)

// interspeciesTries bounds the search for a mate in another species.
const interspeciesTries = 5

// Reproduce creates ExpectedOffspring new organisms from the members of s and
// speciates each of them into sorted, which lists every species best first.
// It returns sorted, extended with the species created along the way.
// Old members are left in place; the caller removes them.
func (s *Species) Reproduce(config *Config, generation int, superChamp *Organism, sorted []*Species) []*Species {
	if s.ExpectedOffspring == 0 || len(s.Organisms) == 0 {
		return sorted
	}
	r := config.random()
	rc := config.Reproduction

	parents := slices.Clone(s.Organisms)
	champ := parents[0]
	champAdded := false

	for range s.ExpectedOffspring {
		var baby *Organism

		switch {
		case superChamp != nil && superChamp == champ && superChamp.ExpectedOffspring > 0:
			// Clones of the population champion; only the last one is mutated.
			baby = superChamp.Copy(0, generation)
			if superChamp.ExpectedOffspring == 1 {
				MutateGenome(baby.Genome, config)
			}
			superChamp.ExpectedOffspring--

		case !champAdded && s.ExpectedOffspring > 5:
			baby = champ.Copy(0, generation)
			champAdded = true

		case r.Float64() < rc.MutateOnlyProbability:
			mom, _ := randomItem(r, parents)
			baby = NewOrganism(MutateGenome(mom.Genome.Copy(), config), 0, generation)

		default:
			mom, _ := randomItem(r, parents)
			var dad *Organism
			if r.Float64() > rc.InterspeciesMateRate {
				dad, _ = randomItem(r, parents)
			} else {
				dad = s.interspeciesMate(r, sorted)
			}

			child := Crossover(config, dad, mom)
			if r.Float64() < rc.MutateOnlyProbability || Compatibility(mom.Genome, dad.Genome, config) == 0 {
				MutateGenome(child, config)
			}
			baby = NewOrganism(child, 0, generation)
		}

		baby.Generation = generation
		sorted = SpeciateOrganism(config, baby, sorted)
	}
	return sorted
}

// interspeciesMate picks the champion of another populated species, falling
// back to the champion of s when none turns up within a few tries.
func (s *Species) interspeciesMate(r *rand.Rand, sorted []*Species) *Organism {
	mate := s
	for tries := 0; mate == s && tries < interspeciesTries; tries++ {
		if candidate := GetRandomSpecies(r, sorted); candidate != nil && len(candidate.Organisms) > 0 {
			mate = candidate
		}
	}
	return mate.Champion()
}

// GetRandomSpecies draws a species from sorted with a gaussian bias towards
// the front of the list. Returns nil when sorted is empty.
func GetRandomSpecies(r *rand.Rand, sorted []*Species) *Species {
	if len(sorted) == 0 {
		return nil
	}
	random := min(int(math.Round(gaussian(r, 0, 1))), 1)
	return sorted[WrapNumber(0, len(sorted)-1, random)]
}

// SpeciateOrganism adds o to the first populated species whose specimen is
// closer than the compatibility threshold, or to a new species appended to
// all. Returns the possibly extended list.
func SpeciateOrganism(config *Config, o *Organism, all []*Species) []*Species {
	threshold := config.Species.CompatibilityThreshold
	for _, s := range all {
		if len(s.Organisms) == 0 || s.Specimen() == nil {
			continue
		}
		if Compatibility(o.Genome, s.Specimen().Genome, config) < threshold {
			s.AddOrganism(o)
			return all
		}
	}

	s := NewSpecies(0)
	s.AddOrganism(o)
	return append(all, s)
}
