package neat

import "math"

const (
	// stagnationPenalty scales the fitness of members of a stagnant species.
	stagnationPenalty = 0.01
	// youngAge is the last age at which a species gets the age significance boost.
	youngAge = 10
	// minSharedFitness keeps shared fitness strictly positive.
	minSharedFitness = 0.0001
)

// isStagnant reports whether the species went more than dropoffAge
// generations without improving its max fitness.
func (s *Species) isStagnant(dropoffAge int) bool {
	return s.Age-s.AgeOfLastImprovement+1 > dropoffAge
}

// shareFitness rescales one member's fitness: stagnation penalty first, then
// the young species boost, then explicit sharing over count members.
func (s *Species) shareFitness(fitness, count, ageSignificance float64) float64 {
	if s.Extinct {
		fitness *= stagnationPenalty
	}
	if s.Age <= youngAge {
		fitness *= ageSignificance
	}
	return math.Max(fitness, minSharedFitness) / count
}
