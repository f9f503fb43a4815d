package neat

import (
	"cmp"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// rnd returns a uniformly distributed number in [from, to).
func rnd(r *rand.Rand, to, from float64) float64 {
	return r.Float64()*(to-from) + from
}

// gaussian returns a normally distributed number.
func gaussian(r *rand.Rand, mean, stdev float64) float64 {
	return r.NormFloat64()*stdev + mean
}

// randomBool returns true with probability one half.
func randomBool(r *rand.Rand) bool {
	return r.Float64() > 0.5
}

// randomItem picks one item from list. ok is false when list is empty.
func randomItem[T any](r *rand.Rand, list []T) (item T, ok bool) {
	if len(list) == 0 {
		return item, false
	}
	return list[r.Intn(len(list))], true
}

// mean computes the average of values, 0 when there are none.
func mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// WrapNumber keeps value inside [min, max], wrapping around on both ends.
func WrapNumber(min, max, value int) int {
	l := max - min + 1
	return ((value-min)%l+l)%l + min
}

// descending builds a comparator ordering items from largest to smallest key.
// Used with slices.SortStableFunc so ties keep their insertion order.
func descending[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(key(b), key(a))
	}
}

// ascending builds a comparator ordering items from smallest to largest key.
func ascending[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}

func byFitness(o *Organism) float64        { return o.Fitness }
func byMaxFitness(s *Species) float64      { return s.MaxFitness }
func byInnovation(c *ConnectionGene) int64 { return c.Innovation }
func roundInt(x float64) int               { return int(math.Round(x)) }
