// Package nn builds and runs the phenotype of a genome: a network of neurons
// and weighted links evaluated one step per Activate call.
package nn

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

var (
	ErrMalformedNeuron = errors.New("nn: neuron requires an id")
	ErrDuplicateNeuron = errors.New("nn: duplicate neuron id")
	ErrMalformedLink   = errors.New("nn: link requires from and to ids")
	ErrUnknownNeuron   = errors.New("nn: link references an unknown neuron")
	ErrInputMismatch   = errors.New("nn: input count mismatch")
)

// NeuronType tells the network how to treat a neuron during activation.
type NeuronType int

const (
	Hidden NeuronType = iota
	Input
	Output
	Bias
)

// Neuron describes a network node. A bare {ID} is a hidden neuron.
type Neuron struct {
	ID   string
	Type NeuronType
	Bias float64
}

// Link describes a weighted connection between two neurons by id.
// Disabled links are validated but do not carry signal.
type Link struct {
	From     string
	To       string
	Weight   float64
	Disabled bool
}

type inbound struct {
	from   int
	weight float64
}

// Network is an executable neuron graph. It keeps two state buffers so
// recurrent links read the value from the previous Activate call.
// A Network is not safe for concurrent use.
type Network struct {
	neurons []Neuron
	index   map[string]int
	inputs  []int
	outputs []int
	bias    []int

	// order lists the neurons computed on each pass: non-sensors reachable
	// from a sensor that have at least one enabled inbound link.
	order   []int
	inbound [][]inbound

	activation ActivationFunc
	state      [2][]float64
	computed   []bool
}

// Option configures a Network at construction time.
type Option func(*Network)

// WithActivation sets the activation function applied to every computed neuron.
func WithActivation(fn ActivationFunc) Option {
	return func(n *Network) {
		if fn != nil {
			n.activation = fn
		}
	}
}

// New validates the neuron and link descriptors and builds a network.
// Input and output neurons keep the order in which they are given.
func New(neurons []Neuron, links []Link, opts ...Option) (*Network, error) {
	net := &Network{
		index:      make(map[string]int, len(neurons)),
		activation: Sigmoid,
	}
	for _, opt := range opts {
		opt(net)
	}

	g := simple.NewDirectedGraph()
	for _, n := range neurons {
		if n.ID == "" {
			return nil, ErrMalformedNeuron
		}
		if _, dup := net.index[n.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNeuron, n.ID)
		}
		idx := len(net.neurons)
		net.index[n.ID] = idx
		net.neurons = append(net.neurons, n)
		g.AddNode(simple.Node(idx))

		switch n.Type {
		case Input:
			net.inputs = append(net.inputs, idx)
		case Output:
			net.outputs = append(net.outputs, idx)
		case Bias:
			net.bias = append(net.bias, idx)
		}
	}

	net.inbound = make([][]inbound, len(net.neurons))
	for _, l := range links {
		if l.From == "" || l.To == "" {
			return nil, fmt.Errorf("%w: %q -> %q", ErrMalformedLink, l.From, l.To)
		}
		from, okFrom := net.index[l.From]
		to, okTo := net.index[l.To]
		if !okFrom || !okTo {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownNeuron, l.From, l.To)
		}
		if l.Disabled {
			continue
		}
		net.inbound[to] = append(net.inbound[to], inbound{from: from, weight: l.Weight})
		// Self loops only feed state forward between calls; they never
		// affect the ordering.
		if from != to {
			g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
		}
	}

	net.order = net.evaluationOrder(g)
	net.state[0] = make([]float64, len(net.neurons))
	net.state[1] = make([]float64, len(net.neurons))
	net.computed = make([]bool, len(net.neurons))
	return net, nil
}

// evaluationOrder sorts neurons topologically, placing each cyclic component
// where the sort left a gap for it, and keeps the ones worth computing.
func (n *Network) evaluationOrder(g *simple.DirectedGraph) []int {
	sorted, err := topo.SortStabilized(g, nil)
	var cycles topo.Unorderable
	if err != nil && !errors.As(err, &cycles) {
		// SortStabilized only reports Unorderable; fall back to declaration order.
		sorted = graph.NodesOf(g.Nodes())
	}

	nodes := make([]graph.Node, 0, len(n.neurons))
	next := 0
	for _, node := range sorted {
		if node != nil {
			nodes = append(nodes, node)
			continue
		}
		if next < len(cycles) {
			nodes = append(nodes, cycles[next]...)
			next++
		}
	}
	for ; next < len(cycles); next++ {
		nodes = append(nodes, cycles[next]...)
	}

	reached := make(map[int64]bool, len(n.neurons))
	walker := traverse.BreadthFirst{
		Visit: func(node graph.Node) { reached[node.ID()] = true },
	}
	for _, s := range n.sensors() {
		walker.Walk(g, simple.Node(s), nil)
	}

	order := make([]int, 0, len(nodes))
	for _, node := range nodes {
		idx := int(node.ID())
		if !reached[node.ID()] || n.isSensor(idx) || len(n.inbound[idx]) == 0 {
			continue
		}
		order = append(order, idx)
	}
	return order
}

func (n *Network) sensors() []int {
	return append(append([]int(nil), n.inputs...), n.bias...)
}

func (n *Network) isSensor(idx int) bool {
	t := n.neurons[idx].Type
	return t == Input || t == Bias
}

// Activate runs one propagation pass. inputs are assigned positionally to the
// input neurons; bias neurons always emit 1. Returns the output neuron values
// in output order.
func (n *Network) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != len(n.inputs) {
		return nil, fmt.Errorf("%w: got %d values for %d input neurons", ErrInputMismatch, len(inputs), len(n.inputs))
	}

	prev, cur := n.state[0], n.state[1]
	copy(cur, prev)
	clear(n.computed)

	for i, idx := range n.inputs {
		prev[idx], cur[idx] = inputs[i], inputs[i]
		n.computed[idx] = true
	}
	for _, idx := range n.bias {
		prev[idx], cur[idx] = 1, 1
		n.computed[idx] = true
	}

	for _, idx := range n.order {
		sum := n.neurons[idx].Bias
		for _, in := range n.inbound[idx] {
			// A source already computed on this pass feeds its new value;
			// back links read the value from the previous call.
			v := prev[in.from]
			if n.computed[in.from] {
				v = cur[in.from]
			}
			sum += v * in.weight
		}
		cur[idx] = n.activation(sum)
		n.computed[idx] = true
	}

	// The values just computed become the previous generation for the next call.
	n.state[0], n.state[1] = cur, prev

	outputs := make([]float64, len(n.outputs))
	for i, idx := range n.outputs {
		outputs[i] = cur[idx]
	}
	return outputs, nil
}

// Reset clears the recurrent state carried between Activate calls.
func (n *Network) Reset() {
	clear(n.state[0])
	clear(n.state[1])
}

// Inputs returns the number of input neurons.
func (n *Network) Inputs() int { return len(n.inputs) }

// Outputs returns the number of output neurons.
func (n *Network) Outputs() int { return len(n.outputs) }

// Neurons returns the total number of neurons.
func (n *Network) Neurons() int { return len(n.neurons) }
