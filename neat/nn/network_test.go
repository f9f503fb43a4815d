package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNeuronWithoutID(t *testing.T) {
	_, err := New([]Neuron{{ID: "1"}, {}, {ID: "3"}}, nil)
	assert.ErrorIs(t, err, ErrMalformedNeuron)
}

func TestNewRejectsDuplicateNeuronIDs(t *testing.T) {
	neurons := []Neuron{
		{ID: "1", Type: Input}, {ID: "2", Type: Input}, {ID: "3", Type: Input},
		{ID: "3", Type: Output}, {ID: "4", Type: Output},
	}
	_, err := New(neurons, nil)
	assert.ErrorIs(t, err, ErrDuplicateNeuron)
}

func TestNewRejectsLinksWithoutEndpoints(t *testing.T) {
	neurons := []Neuron{{ID: "1", Type: Input}, {ID: "2", Type: Output}}
	_, err := New(neurons, []Link{{From: "1", To: "2"}, {From: "1"}})
	assert.ErrorIs(t, err, ErrMalformedLink)
}

func TestNewRejectsLinksToUnknownNeurons(t *testing.T) {
	neurons := []Neuron{{ID: "1", Type: Input}, {ID: "2", Type: Input}, {ID: "5", Type: Output}}
	_, err := New(neurons, []Link{{From: "2", To: "5"}, {From: "2", To: "7"}})
	assert.ErrorIs(t, err, ErrUnknownNeuron)

	// Disabled links are validated too.
	_, err = New(neurons, []Link{{From: "9", To: "5", Disabled: true}})
	assert.ErrorIs(t, err, ErrUnknownNeuron)
}

func TestNewIngestsMinimalRecords(t *testing.T) {
	neurons := []Neuron{
		{ID: "1", Type: Input}, {ID: "2", Type: Input}, {ID: "3", Type: Input},
		{ID: "h"},
		{ID: "4", Type: Output}, {ID: "5", Type: Output}, {ID: "6", Type: Output},
	}
	net, err := New(neurons, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, net.Inputs())
	assert.Equal(t, 3, net.Outputs())
	assert.Equal(t, 7, net.Neurons())
}

func TestActivateZeroWeights(t *testing.T) {
	neurons := []Neuron{{ID: "1", Type: Input}, {ID: "2", Type: Input}, {ID: "3", Type: Output}, {ID: "4", Type: Output}}
	links := []Link{{From: "1", To: "3"}, {From: "2", To: "4"}}
	net, err := New(neurons, links)
	require.NoError(t, err)

	out, err := net.Activate([]float64{0.5, 0.5})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.InDelta(t, 0.5, out[0], 1e-9)
	assert.InDelta(t, 0.5, out[1], 1e-9)
}

func TestActivateSigmoidOfWeightedSum(t *testing.T) {
	neurons := []Neuron{{ID: "a", Type: Input}, {ID: "b", Type: Input}, {ID: "o", Type: Output}}
	links := []Link{{From: "a", To: "o", Weight: 1}, {From: "b", To: "o", Weight: -0.5}}
	net, err := New(neurons, links)
	require.NoError(t, err)

	out, err := net.Activate([]float64{0.5, 1})
	require.NoError(t, err)
	assert.InDelta(t, Sigmoid(0), out[0], 1e-9)

	out, err = net.Activate([]float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, Sigmoid(1), out[0], 1e-9)
}

func TestActivatePropagatesThroughHiddenLayerInOnePass(t *testing.T) {
	// Declared in an order where the output comes before the hidden neuron.
	neurons := []Neuron{{ID: "in", Type: Input}, {ID: "out", Type: Output}, {ID: "h"}}
	links := []Link{
		{From: "h", To: "out", Weight: 3},
		{From: "in", To: "h", Weight: 2},
		{From: "in", To: "out", Weight: 1},
	}
	net, err := New(neurons, links, WithActivation(Identity))
	require.NoError(t, err)

	out, err := net.Activate([]float64{1.5})
	require.NoError(t, err)
	assert.InDelta(t, 7*1.5, out[0], 1e-9)
}

func TestActivateCarriesRecurrentState(t *testing.T) {
	neurons := []Neuron{{ID: "in", Type: Input}, {ID: "out", Type: Output}}
	links := []Link{{From: "in", To: "out", Weight: 1}, {From: "out", To: "out", Weight: 1}}
	net, err := New(neurons, links, WithActivation(Identity))
	require.NoError(t, err)

	out, err := net.Activate([]float64{2})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out[0], 1e-9)

	out, err = net.Activate([]float64{2})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, out[0], 1e-9)

	net.Reset()
	out, err = net.Activate([]float64{2})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out[0], 1e-9)
}

func TestActivateHandlesCycles(t *testing.T) {
	neurons := []Neuron{{ID: "in", Type: Input}, {ID: "a"}, {ID: "b"}, {ID: "out", Type: Output}}
	links := []Link{
		{From: "in", To: "a", Weight: 1},
		{From: "a", To: "b", Weight: 1},
		{From: "b", To: "a", Weight: 1},
		{From: "b", To: "out", Weight: 1},
	}
	net, err := New(neurons, links, WithActivation(Identity))
	require.NoError(t, err)

	out, err := net.Activate([]float64{1})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.False(t, math.IsNaN(out[0]))
}

func TestActivateBiasAndDisabledLinks(t *testing.T) {
	neurons := []Neuron{{ID: "in", Type: Input}, {ID: "bias", Type: Bias}, {ID: "out", Type: Output, Bias: 0.25}}
	links := []Link{
		{From: "in", To: "out", Weight: 10, Disabled: true},
		{From: "bias", To: "out", Weight: 0.5},
	}
	net, err := New(neurons, links, WithActivation(Identity))
	require.NoError(t, err)

	out, err := net.Activate([]float64{3})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, out[0], 1e-9)
}

func TestActivateLeavesUnreachedOutputsAtZero(t *testing.T) {
	neurons := []Neuron{{ID: "in", Type: Input}, {ID: "h"}, {ID: "out", Type: Output}}
	links := []Link{{From: "h", To: "out", Weight: 1}}
	net, err := New(neurons, links)
	require.NoError(t, err)

	out, err := net.Activate([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0])
}

func TestActivateRejectsWrongInputCount(t *testing.T) {
	net, err := New([]Neuron{{ID: "in", Type: Input}, {ID: "out", Type: Output}}, nil)
	require.NoError(t, err)

	_, err = net.Activate([]float64{1, 2})
	assert.ErrorIs(t, err, ErrInputMismatch)
}

func TestGetActivation(t *testing.T) {
	fn, err := GetActivation("sigmoid")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, fn(0), 1e-12)

	_, err = GetActivation("nope")
	assert.Error(t, err)
}
