package neat

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// geneGraph is a directed graph view over a set of connection genes.
// Node ids are assigned on first sight.
type geneGraph struct {
	g   *simple.DirectedGraph
	ids map[string]int64
}

func newGeneGraph(connections []*ConnectionGene) *geneGraph {
	gg := &geneGraph{
		g:   simple.NewDirectedGraph(),
		ids: make(map[string]int64),
	}
	for _, c := range connections {
		gg.addEdge(c.From.ID, c.To.ID)
	}
	return gg
}

func (gg *geneGraph) node(id string) simple.Node {
	if n, ok := gg.ids[id]; ok {
		return simple.Node(n)
	}
	n := int64(len(gg.ids))
	gg.ids[id] = n
	return simple.Node(n)
}

func (gg *geneGraph) addEdge(from, to string) {
	f, t := gg.node(from), gg.node(to)
	// A self loop cannot make any other path reachable.
	if f == t {
		return
	}
	gg.g.SetEdge(gg.g.NewEdge(f, t))
}

// reaches reports whether a path leads from node a to node b. A node always
// reaches itself.
func (gg *geneGraph) reaches(a, b string) bool {
	return topo.PathExistsIn(gg.g, gg.node(a), gg.node(b))
}

// IsRecurrent reports whether connection closes a cycle: following outgoing
// links from connection.To through connections leads back to connection.From.
// A self loop is always recurrent.
func IsRecurrent(connection *ConnectionGene, connections []*ConnectionGene) bool {
	if connection.From.ID == connection.To.ID {
		return true
	}
	return newGeneGraph(connections).reaches(connection.To.ID, connection.From.ID)
}
