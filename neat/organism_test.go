package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganismCopyPreservesOriginalFitness(t *testing.T) {
	cfg := testConfig()
	o := NewOrganism(seedGenome(t, cfg), 12, 3)
	o.OriginalFitness = 5

	cp := o.Copy(0, 7)
	assert.Equal(t, 0.0, cp.Fitness)
	assert.Equal(t, 7, cp.Generation)
	assert.Equal(t, 5.0, cp.OriginalFitness)
	assert.Equal(t, o.Genome.ID, cp.Genome.ID)
	assert.NotSame(t, o.Genome, cp.Genome)
	assert.Nil(t, cp.Species)
}

func TestOrganismNetworkIsCached(t *testing.T) {
	cfg := testConfig()
	o := NewOrganism(seedGenome(t, cfg), 0, 0)

	net, err := o.Network(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, net.Inputs())
	assert.Equal(t, 1, net.Outputs())
	assert.Equal(t, 4, net.Neurons())

	o.Genome.MutateAddNode(cfg)
	again, err := o.Network(cfg)
	require.NoError(t, err)
	assert.Same(t, net, again)
	assert.Equal(t, 4, again.Neurons())

	fresh, err := NewOrganism(o.Genome, 0, 0).Network(cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.Neurons())
}

func TestOrganismNetworkActivates(t *testing.T) {
	cfg := testConfig()
	cfg.Genome.Activation = "identity"
	o := NewOrganism(seedGenome(t, cfg), 0, 0)

	net, err := o.Network(cfg)
	require.NoError(t, err)
	out, err := net.Activate([]float64{1, 2})
	require.NoError(t, err)
	// input0 + input1 + bias, all with weight 1.
	assert.InDelta(t, 4.0, out[0], 1e-12)
}
