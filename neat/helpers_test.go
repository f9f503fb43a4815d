package neat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Neat.Seed = 42
	cfg.Innovation = NewInnovation(0)
	return cfg
}

// xorTopology is two inputs and a bias feeding a single output.
func xorTopology() Topology {
	return Topology{
		Nodes: []NodeSpec{
			{ID: "input0", Type: Input},
			{ID: "input1", Type: Input},
			{ID: "bias", Type: Bias},
			{ID: "output", Type: Output},
		},
		Connections: []ConnectionSpec{
			{From: "input0", To: "output", Weight: 1},
			{From: "input1", To: "output", Weight: 1},
			{From: "bias", To: "output", Weight: 1},
		},
	}
}

func seedGenome(t *testing.T, cfg *Config) *Genome {
	t.Helper()
	g, err := xorTopology().Genome(cfg)
	require.NoError(t, err)
	return g
}

func countDisabled(g *Genome) int {
	return g.ConnectionCount() - len(g.EnabledConnections())
}

// chainGenome builds in -> a -> b -> out.
func chainGenome(t *testing.T, cfg *Config) *Genome {
	t.Helper()
	g, err := Topology{
		Nodes: []NodeSpec{{ID: "in", Type: Input}, {ID: "a"}, {ID: "b"}, {ID: "out", Type: Output}},
		Connections: []ConnectionSpec{
			{From: "in", To: "a", Weight: 1},
			{From: "a", To: "b", Weight: 1},
			{From: "b", To: "out", Weight: 1},
		},
	}.Genome(cfg)
	require.NoError(t, err)
	return g
}
