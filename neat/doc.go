// Package neat provides a Go implementation of the NeuroEvolution of Augmenting Topologies (NEAT) algorithm.
//
// NEAT is a genetic algorithm for the generation of evolving artificial neural networks.
// It alters both the weighting parameters and structures of networks, attempting to find
// a balance between the fitness of evolved solutions and their diversity.
//
// Connection genes carry innovation numbers, which align genomes of different
// shapes for crossover and for the compatibility distance used to split the
// population into species. Species share fitness among their members and
// are penalized when they stagnate.
//
// Basic usage:
//
//	config, err := neat.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	pop, err := neat.From(config, neat.LayeredTopology(2, nil, 1, false))
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	winner, err := pop.Run(ctx, evaluate, 300, nil)
//	if errors.Is(err, neat.ErrNoSolution) {
//		fmt.Println("No solution within 300 generations")
//	}
package neat
