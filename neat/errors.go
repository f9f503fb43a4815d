package neat

import "errors"

var (
	// ErrInvalidNode is returned when a connection is built with a missing endpoint.
	ErrInvalidNode = errors.New("neat: connection endpoints must be node genes")
	// ErrUnknownNode is returned when a connection references a node the genome does not hold.
	ErrUnknownNode = errors.New("neat: connection references an unknown node")
	// ErrDuplicateNode is returned when a seed topology declares the same node id twice.
	ErrDuplicateNode = errors.New("neat: duplicate node id")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("neat: invalid config")
	// ErrNoSolution is returned by Run when no organism reached the fitness
	// threshold within the generation budget.
	ErrNoSolution = errors.New("neat: no solution found")
	// ErrPopulationExtinct is returned by Run when every species died out and
	// the config does not allow reseeding.
	ErrPopulationExtinct = errors.New("neat: population extinct")
)
