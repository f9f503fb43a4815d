package neat

import "fmt"

// NodeSpec describes a node of a seed topology.
type NodeSpec struct {
	ID   string   `json:"id" yaml:"id"`
	Type NodeType `json:"type" yaml:"type"`
}

// ConnectionSpec describes a connection of a seed topology by node ids.
type ConnectionSpec struct {
	From     string  `json:"from" yaml:"from"`
	To       string  `json:"to" yaml:"to"`
	Weight   float64 `json:"weight" yaml:"weight"`
	Disabled bool    `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Topology is the minimal network every organism of a new population starts from.
type Topology struct {
	Nodes       []NodeSpec       `json:"nodes" yaml:"nodes"`
	Connections []ConnectionSpec `json:"connections" yaml:"connections"`
}

// LayeredTopology builds a fully connected layered topology: every node of a
// layer feeds every node of the next one, with weight 1. hidden lists the
// size of each hidden layer. With selfLoops, every hidden node also feeds
// itself.
func LayeredTopology(inputs int, hidden []int, outputs int, selfLoops bool) Topology {
	var t Topology
	var layer []string
	for i := range inputs {
		id := fmt.Sprintf("in%d", i)
		t.Nodes = append(t.Nodes, NodeSpec{ID: id, Type: Input})
		layer = append(layer, id)
	}

	for k, size := range hidden {
		next := make([]string, 0, size)
		for i := range size {
			id := fmt.Sprintf("h%d_%d", k, i)
			t.Nodes = append(t.Nodes, NodeSpec{ID: id, Type: Hidden})
			if selfLoops {
				t.Connections = append(t.Connections, ConnectionSpec{From: id, To: id, Weight: 1})
			}
			for _, from := range layer {
				t.Connections = append(t.Connections, ConnectionSpec{From: from, To: id, Weight: 1})
			}
			next = append(next, id)
		}
		layer = next
	}

	for i := range outputs {
		id := fmt.Sprintf("out%d", i)
		t.Nodes = append(t.Nodes, NodeSpec{ID: id, Type: Output})
		for _, from := range layer {
			t.Connections = append(t.Connections, ConnectionSpec{From: from, To: id, Weight: 1})
		}
	}
	return t
}

// Genome builds a genome from the topology, consuming one innovation number
// per connection in the order they are listed.
func (t Topology) Genome(config *Config) (*Genome, error) {
	g := NewGenome("")
	for _, n := range t.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: seed node without id", ErrInvalidNode)
		}
		if _, dup := g.Node(n.ID); dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		g.AddNode(NewNodeGene(n.ID, n.Type))
	}

	for _, c := range t.Connections {
		from, okFrom := g.Node(c.From)
		to, okTo := g.Node(c.To)
		if !okFrom || !okTo {
			return nil, fmt.Errorf("%w: seed connection %s -> %s", ErrUnknownNode, c.From, c.To)
		}
		conn, err := NewConnectionGene(from, to, c.Weight, !c.Disabled)
		if err != nil {
			return nil, err
		}
		if err := g.AddConnection(config, conn); err != nil {
			return nil, err
		}
	}
	return g, nil
}
