package neat

import (
	"context"
	"fmt"
	"sync"

	"github.com/Up-North-Coding/NEAT/neat/nn"
)

// FitnessFunc scores the network of one organism. It may be called from
// several goroutines at once, each time with a different organism, and must
// treat the population as read-only.
type FitnessFunc func(ctx context.Context, network *nn.Network, organism *Organism, population *Population) (float64, error)

// ProgressFunc is called once per unsuccessful generation, before the epoch.
type ProgressFunc func(population *Population)

// evaluate scores every organism of the current generation with a bounded
// pool of workers and returns once all of them are done.
func (p *Population) evaluate(ctx context.Context, fitness FitnessFunc) error {
	type job struct {
		idx      int
		organism *Organism
	}
	type result struct {
		idx     int
		fitness float64
		err     error
	}

	jobs := make(chan job)
	results := make(chan result, len(p.Organisms))

	workerCount := max(p.Config.Neat.Workers, 1)
	if workerCount > len(p.Organisms) {
		workerCount = len(p.Organisms)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				network, err := j.organism.Network(p.Config)
				if err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				score, err := fitness(ctx, network, j.organism, p)
				if err != nil {
					results <- result{idx: j.idx, err: fmt.Errorf("fitness of genome %s: %w", j.organism.Genome.ID, err)}
					continue
				}
				results <- result{idx: j.idx, fitness: score}
			}
		}()
	}

	for i, o := range p.Organisms {
		jobs <- job{idx: i, organism: o}
	}
	close(jobs)

	wg.Wait()
	close(results)

	scores := make([]float64, len(p.Organisms))
	for res := range results {
		if res.err != nil {
			return res.err
		}
		scores[res.idx] = res.fitness
	}
	for i, o := range p.Organisms {
		o.Fitness = scores[i]
	}
	return nil
}

// winner returns the first organism, in population order, whose fitness
// reaches the threshold.
func (p *Population) winner() *Organism {
	for _, o := range p.Organisms {
		if o.Fitness >= p.Config.Neat.FitnessThreshold {
			return o
		}
	}
	return nil
}
