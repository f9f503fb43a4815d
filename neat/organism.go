package neat

import (
	"fmt"

	"github.com/Up-North-Coding/NEAT/neat/nn"
)

// Organism pairs a genome with its fitness bookkeeping and a lazily built network.
type Organism struct {
	Genome *Genome

	Fitness           float64 // working value, rescaled by fitness sharing
	OriginalFitness   float64 // fitness before sharing
	Generation        int
	ExpectedOffspring int
	Kill              bool

	// Species is the cluster the organism currently belongs to. It does not own the organism.
	Species *Species

	network *nn.Network
}

// NewOrganism wraps genome. A nil genome gets an empty one.
func NewOrganism(genome *Genome, fitness float64, generation int) *Organism {
	if genome == nil {
		genome = NewGenome("")
	}
	return &Organism{Genome: genome, Fitness: fitness, Generation: generation}
}

// String returns a short summary of the organism.
func (o *Organism) String() string {
	return fmt.Sprintf("Organism(Genome: %s, Fitness: %.4f, Generation: %d)", o.Genome.ID, o.Fitness, o.Generation)
}

// Copy deep-copies the genome into a new organism with the given fitness and
// generation. OriginalFitness carries over from o.
func (o *Organism) Copy(fitness float64, generation int) *Organism {
	clone := NewOrganism(o.Genome.Copy(), fitness, generation)
	clone.OriginalFitness = o.OriginalFitness
	return clone
}

// Network returns the phenotype of the organism, building it on first call.
// Later mutations of the genome are not reflected in an already built network.
func (o *Organism) Network(config *Config) (*nn.Network, error) {
	if o.network != nil {
		return o.network, nil
	}

	nodes := o.Genome.Nodes()
	neurons := make([]nn.Neuron, 0, len(nodes))
	for _, n := range nodes {
		neurons = append(neurons, nn.Neuron{ID: n.ID, Type: neuronType(n.Type)})
	}

	connections := o.Genome.Connections()
	links := make([]nn.Link, 0, len(connections))
	for _, c := range connections {
		links = append(links, nn.Link{From: c.From.ID, To: c.To.ID, Weight: c.Weight, Disabled: !c.Enabled})
	}

	net, err := nn.New(neurons, links, nn.WithActivation(config.activation()))
	if err != nil {
		return nil, fmt.Errorf("failed to build network for genome %s: %w", o.Genome.ID, err)
	}
	o.network = net
	return net, nil
}

func neuronType(t NodeType) nn.NeuronType {
	switch t {
	case Input:
		return nn.Input
	case Output:
		return nn.Output
	case Bias:
		return nn.Bias
	default:
		return nn.Hidden
	}
}
