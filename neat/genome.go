package neat

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
)

// Genome is the genotype of an organism: a set of node genes keyed by id and
// a set of connection genes keyed by innovation number.
type Genome struct {
	ID string

	nodes       map[string]*NodeGene
	nodeOrder   []string // insertion order, keeps inputs and outputs positional
	connections map[int64]*ConnectionGene
}

// NewGenome creates an empty genome. A fresh UUID is used when id is empty.
func NewGenome(id string) *Genome {
	if id == "" {
		id = uuid.NewString()
	}
	return &Genome{
		ID:          id,
		nodes:       make(map[string]*NodeGene),
		connections: make(map[int64]*ConnectionGene),
	}
}

// String returns a short summary of the genome.
func (g *Genome) String() string {
	return fmt.Sprintf("Genome(ID: %s, Nodes: %d, Connections: %d)", g.ID, len(g.nodes), len(g.connections))
}

// AddNode inserts node unless a node with the same id is already present.
func (g *Genome) AddNode(node *NodeGene) {
	if _, exists := g.nodes[node.ID]; exists {
		return
	}
	g.nodes[node.ID] = node
	g.nodeOrder = append(g.nodeOrder, node.ID)
}

// AddConnection assigns the next innovation number to c and stores it.
// Both endpoints must already be nodes of the genome; c is rebound to them.
func (g *Genome) AddConnection(config *Config, c *ConnectionGene) error {
	from, okFrom := g.nodes[c.From.ID]
	to, okTo := g.nodes[c.To.ID]
	if !okFrom || !okTo {
		return fmt.Errorf("%w: connection %s -> %s in genome %s", ErrUnknownNode, c.From.ID, c.To.ID, g.ID)
	}
	c.From, c.To = from, to
	c.Innovation = config.nextInnovation()
	g.connections[c.Innovation] = c
	return nil
}

// Node returns the node with the given id.
func (g *Genome) Node(id string) (*NodeGene, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node in insertion order.
func (g *Genome) Nodes() []*NodeGene {
	nodes := make([]*NodeGene, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeCount returns the number of nodes.
func (g *Genome) NodeCount() int { return len(g.nodes) }

// Connection returns the connection with the given innovation number.
func (g *Genome) Connection(innovation int64) (*ConnectionGene, bool) {
	c, ok := g.connections[innovation]
	return c, ok
}

// Connections returns every connection, enabled or not, by ascending innovation.
func (g *Genome) Connections() []*ConnectionGene {
	conns := make([]*ConnectionGene, 0, len(g.connections))
	for _, c := range g.connections {
		conns = append(conns, c)
	}
	slices.SortFunc(conns, ascending(byInnovation))
	return conns
}

// ConnectionCount returns the number of connections, enabled or not.
func (g *Genome) ConnectionCount() int { return len(g.connections) }

// EnabledConnections returns the enabled connections by ascending innovation.
func (g *Genome) EnabledConnections() []*ConnectionGene {
	return slices.DeleteFunc(g.Connections(), func(c *ConnectionGene) bool { return !c.Enabled })
}

// innovations returns the sorted innovation numbers of the genome.
func (g *Genome) innovations() []int64 {
	keys := make([]int64, 0, len(g.connections))
	for k := range g.connections {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ConnectionExists reports whether any connection, enabled or not, links a to b.
func (g *Genome) ConnectionExists(a, b *NodeGene) bool {
	for _, c := range g.connections {
		if c.links(a.ID, b.ID) {
			return true
		}
	}
	return false
}

// Copy creates a deep copy of the genome keeping its id. Connections of the
// copy point at the copy's own nodes.
func (g *Genome) Copy() *Genome {
	cp := &Genome{
		ID:          g.ID,
		nodes:       make(map[string]*NodeGene, len(g.nodes)),
		nodeOrder:   slices.Clone(g.nodeOrder),
		connections: make(map[int64]*ConnectionGene, len(g.connections)),
	}
	for id, n := range g.nodes {
		cp.nodes[id] = n.Copy()
	}
	for innovation, c := range g.connections {
		cc := c.Copy()
		cc.From = cp.endpoint(c.From)
		cc.To = cp.endpoint(c.To)
		cp.connections[innovation] = cc
	}
	return cp
}

// endpoint resolves n to the genome's own node with the same id, adding a
// copy of n when the genome does not hold one yet.
func (g *Genome) endpoint(n *NodeGene) *NodeGene {
	if own, ok := g.nodes[n.ID]; ok {
		return own
	}
	own := n.Copy()
	g.AddNode(own)
	return own
}

// --------------------------- Mutations ---------------------------

// MutateAddConnection tries up to AddConnectionTries random node pairs and
// links the first valid one. Nothing happens when no pair is found.
func (g *Genome) MutateAddConnection(config *Config) {
	r := config.random()
	nodes := g.Nodes()
	connections := g.Connections()
	power := config.Genome.MutationPower

	sources := slices.DeleteFunc(slices.Clone(nodes), (*NodeGene).IsOutput)
	for tries := config.Genome.AddConnectionTries; tries > 0; tries-- {
		from, ok := randomItem(r, sources)
		if !ok {
			return
		}
		targets := slices.DeleteFunc(slices.Clone(nodes), func(n *NodeGene) bool {
			// Sensors take no input; links between outputs count as recurrent.
			return n.IsSensor() || n.ID == from.ID || (from.IsOutput() && n.IsOutput())
		})
		to, ok := randomItem(r, targets)
		if !ok {
			continue
		}

		if g.ConnectionExists(from, to) {
			continue
		}
		candidate := &ConnectionGene{From: from, To: to, Weight: rnd(r, power, -power), Enabled: true}
		if config.Genome.FeedForwardOnly && IsRecurrent(candidate, connections) {
			continue
		}
		// Endpoints come from the genome itself, so this cannot fail.
		_ = g.AddConnection(config, candidate)
		return
	}
}

// MutateAddNode splits a random enabled connection with a new hidden node.
// The split connection is disabled; from->node gets weight 1 and node->to
// inherits the old weight.
func (g *Genome) MutateAddNode(config *Config) {
	if len(g.connections) == 0 {
		return
	}
	old, ok := randomItem(config.random(), g.EnabledConnections())
	if !ok {
		return
	}
	old.Disable()

	node := NewNodeGene("", Hidden)
	g.AddNode(node)
	_ = g.AddConnection(config, &ConnectionGene{From: old.From, To: node, Weight: 1, Enabled: true})
	_ = g.AddConnection(config, &ConnectionGene{From: node, To: old.To, Weight: old.Weight, Enabled: true})
}

// ReEnableGene enables the disabled connection with the lowest innovation.
// With FeedForwardOnly, connections that would close a cycle are passed over.
func (g *Genome) ReEnableGene(config *Config) {
	for _, c := range g.Connections() {
		if c.Enabled {
			continue
		}
		if config.Genome.FeedForwardOnly && IsRecurrent(c, g.EnabledConnections()) {
			continue
		}
		c.Enabled = true
		return
	}
}

// MutateToggleEnable flips a random connection times times. Enabled
// connections are only disabled when another connection leaves from a
// different node, is already disabled, or is the connection itself, which
// makes the check permissive.
func (g *Genome) MutateToggleEnable(config *Config, times int) {
	r := config.random()
	connections := g.Connections()

	for ; times > 0; times-- {
		c, ok := randomItem(r, connections)
		if !ok {
			return
		}
		if !c.Enabled {
			if config.Genome.FeedForwardOnly && IsRecurrent(c, g.EnabledConnections()) {
				continue
			}
			c.Enabled = true
			continue
		}
		safe := slices.ContainsFunc(connections, func(other *ConnectionGene) bool {
			return other.From.ID != c.From.ID || !other.Enabled || other.Innovation == c.Innovation
		})
		if safe {
			c.Disable()
		}
	}
}

// MutateConnectionsWeights perturbs or replaces the weight of every enabled connection.
func (g *Genome) MutateConnectionsWeights(config *Config) {
	r := config.random()
	power := config.Genome.MutationPower
	for _, c := range g.Connections() {
		delta := rnd(r, power, -power)
		if !c.Enabled {
			continue
		}
		if r.Float64() < config.Genome.GenomeWeightPerturbated {
			c.Weight += delta
		} else {
			c.Weight = delta
		}
	}
}

// MutateGenome applies one of three mutually exclusive mutation branches to
// genome in place: add a node, add a connection, or any combination of
// weight, toggle and re-enable mutations. It returns genome.
func MutateGenome(genome *Genome, config *Config) *Genome {
	r := config.random()
	gc := config.Genome

	switch {
	case r.Float64() < gc.MutateAddNodeProbability:
		genome.MutateAddNode(config)
	case r.Float64() < gc.MutateAddConnectionProbability:
		genome.MutateAddConnection(config)
	default:
		if r.Float64() < gc.MutateConnectionWeightsProbability {
			genome.MutateConnectionsWeights(config)
		}
		if r.Float64() < gc.MutateToggleEnableProbability {
			genome.MutateToggleEnable(config, 1)
		}
		if r.Float64() < gc.ReEnableGeneProbability {
			genome.ReEnableGene(config)
		}
	}
	return genome
}

// --------------------------- Distance & Mating ---------------------------

// Compatibility computes the compatibility distance between two genomes,
// aligning their connections by innovation number.
func Compatibility(g1, g2 *Genome, config *Config) float64 {
	n1, n2 := len(g1.connections), len(g2.connections)
	excess := math.Abs(float64(n1 - n2))
	disjoint := -excess
	matching := make([]float64, 0, min(n1, n2))

	for innovation, c1 := range g1.connections {
		if c2, ok := g2.connections[innovation]; ok {
			matching = append(matching, math.Abs(c1.Weight-c2.Weight))
		} else {
			disjoint++
		}
	}
	for innovation := range g2.connections {
		if _, ok := g1.connections[innovation]; !ok {
			disjoint++
		}
	}
	// Map order is random; a sorted sum is identical in both directions.
	slices.Sort(matching)

	n := float64(max(n1, n2, 1))
	gc := config.Genome
	return (excess*gc.ExcessCoefficient+disjoint*gc.DisjointCoefficient)/n +
		mean(matching...)*gc.WeightDifferenceCoefficient
}

// Crossover mates two organisms. Genes are aligned by innovation number:
// matching genes come from a random parent, disjoint and excess genes from
// whichever parent has them. Sensor and output nodes are always inherited
// from the fitter parent.
func Crossover(config *Config, p1, p2 *Organism) *Genome {
	r := config.random()
	parents := []*Organism{p1, p2}
	slices.SortStableFunc(parents, descending(byFitness))
	high, low := parents[0].Genome, parents[1].Genome

	child := NewGenome("")
	for _, n := range high.Nodes() {
		if n.IsSensor() || n.IsOutput() {
			child.AddNode(n.Copy())
		}
	}

	innovations := append(high.innovations(), low.innovations()...)
	slices.Sort(innovations)
	innovations = slices.Compact(innovations)

	for _, innovation := range innovations {
		hc, inHigh := high.connections[innovation]
		lc, inLow := low.connections[innovation]

		var chosen *ConnectionGene
		switch {
		case inHigh && inLow:
			chosen = lc
			if randomBool(r) {
				chosen = hc
			}
		case inHigh:
			chosen = hc
		default:
			chosen = lc
		}

		if config.Genome.FeedForwardOnly && IsRecurrent(chosen, child.EnabledConnections()) {
			continue
		}

		c := chosen.Copy()
		c.From = child.endpoint(chosen.From)
		c.To = child.endpoint(chosen.To)
		child.connections[innovation] = c
	}
	return child
}
