package neat

import (
	"fmt"

	"github.com/google/uuid"
)

// --------------------------- NodeGene ---------------------------

// NodeType tells the genome and the network how a node behaves.
type NodeType int

const (
	Hidden NodeType = iota
	Input
	Output
	Bias
)

var nodeTypeNames = map[NodeType]string{
	Hidden: "hidden",
	Input:  "input",
	Output: "output",
	Bias:   "bias",
}

// String returns the lowercase name of the node type.
func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// MarshalText encodes the node type by name, so records stay readable in JSON and YAML.
func (t NodeType) MarshalText() ([]byte, error) {
	if _, ok := nodeTypeNames[t]; !ok {
		return nil, fmt.Errorf("unknown node type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a node type name. An empty name is a hidden node.
func (t *NodeType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = Hidden
		return nil
	}
	for nt, name := range nodeTypeNames {
		if name == string(text) {
			*t = nt
			return nil
		}
	}
	return fmt.Errorf("unknown node type %q", text)
}

// NodeGene represents a node (neuron) in the genome. Its ID is shared by every
// copy of the gene, so it identifies the gene historically across genomes.
type NodeGene struct {
	ID   string
	Type NodeType
}

// NewNodeGene creates a node gene. A fresh UUID is generated when id is empty.
func NewNodeGene(id string, t NodeType) *NodeGene {
	if id == "" {
		id = uuid.NewString()
	}
	return &NodeGene{ID: id, Type: t}
}

// String returns a string representation of the NodeGene.
func (ng *NodeGene) String() string {
	return fmt.Sprintf("NodeGene(ID: %s, Type: %s)", ng.ID, ng.Type)
}

// Copy creates a copy of the NodeGene with the same id and type.
func (ng *NodeGene) Copy() *NodeGene {
	return &NodeGene{ID: ng.ID, Type: ng.Type}
}

// IsSensor reports whether the node receives its value from outside the network.
func (ng *NodeGene) IsSensor() bool {
	return ng.Type == Input || ng.Type == Bias
}

// IsOutput reports whether the node is a network output.
func (ng *NodeGene) IsOutput() bool {
	return ng.Type == Output
}

// --------------------------- ConnectionGene ---------------------------

// ConnectionGene represents a weighted link between two nodes of a genome.
// Innovation is the historical marker assigned when the connection is added
// to a genome; it aligns genes of the same origin across genomes.
type ConnectionGene struct {
	From       *NodeGene
	To         *NodeGene
	Weight     float64
	Enabled    bool
	Innovation int64
}

// NewConnectionGene creates a connection between from and to.
// Both endpoints must be valid node genes.
func NewConnectionGene(from, to *NodeGene, weight float64, enabled bool) (*ConnectionGene, error) {
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: connection endpoints must be node genes", ErrInvalidNode)
	}
	return &ConnectionGene{
		From:    from,
		To:      to,
		Weight:  weight,
		Enabled: enabled,
	}, nil
}

// String returns a string representation of the ConnectionGene.
func (cg *ConnectionGene) String() string {
	return fmt.Sprintf("ConnGene(%d: %s->%s, Weight: %.3f, Enabled: %t)",
		cg.Innovation, cg.From.ID, cg.To.ID, cg.Weight, cg.Enabled)
}

// Copy creates a copy of the ConnectionGene. The endpoints still point at
// the original node genes; Genome.Copy rebinds them to its own nodes.
func (cg *ConnectionGene) Copy() *ConnectionGene {
	return &ConnectionGene{
		From:       cg.From,
		To:         cg.To,
		Weight:     cg.Weight,
		Enabled:    cg.Enabled,
		Innovation: cg.Innovation,
	}
}

// Disable turns the connection off.
func (cg *ConnectionGene) Disable() {
	cg.Enabled = false
}

// links reports whether the connection goes from node a to node b.
func (cg *ConnectionGene) links(a, b string) bool {
	return cg.From.ID == a && cg.To.ID == b
}
