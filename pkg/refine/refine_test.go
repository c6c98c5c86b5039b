package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenetree/mcts/pkg/mcts"
	"github.com/scenetree/mcts/pkg/proposal"
)

// quadLoss pulls every parameter toward target.
func quadLoss(target float64) func(seq mcts.Sequence) float64 {
	return func(seq mcts.Sequence) float64 {
		loss := 0.0
		for _, p := range seq {
			for _, v := range p.Params {
				d := v - target
				loss += d * d
			}
		}
		return loss
	}
}

func TestOptimizeReducesLoss(t *testing.T) {
	a := proposal.New("a", proposal.Other)
	a.Params = []float64{4.0, -2.0}
	b := proposal.New("b", proposal.Other)
	b.Params = []float64{1.5}

	seq := mcts.Sequence{a, b}
	h := New(0.1).NewHandle(seq, 50)

	loss := quadLoss(1.0)
	before := loss(seq)
	after := h.Optimize(loss)

	require.Less(t, after, before)
	assert.InDelta(t, 1.0, a.Params[0], 0.05)
	assert.InDelta(t, 1.0, a.Params[1], 0.05)
	assert.InDelta(t, 1.0, b.Params[0], 0.05)
}

func TestOptimizeWritesBackInPlace(t *testing.T) {
	a := proposal.New("a", proposal.Other)
	a.Params = []float64{3.0}
	backing := a.Params

	h := New(0.1).NewHandle(mcts.Sequence{a}, 20)
	h.Optimize(quadLoss(0.0))

	// The proposal's own slice must hold the refined value so that a later
	// rescoring of the same sequence sees it.
	assert.InDelta(t, 0.0, backing[0], 0.1)
}

func TestSetStepsRaisesBudget(t *testing.T) {
	a := proposal.New("a", proposal.Other)
	a.Params = []float64{10.0}

	h := New(0.05).NewHandle(mcts.Sequence{a}, 1)
	require.Equal(t, 1, h.Steps())

	first := h.Optimize(quadLoss(0.0))

	h.SetSteps(100)
	require.Equal(t, 100, h.Steps())
	second := h.Optimize(quadLoss(0.0))

	assert.Less(t, second, first)
}

func TestHandleWithoutParamsJustEvaluates(t *testing.T) {
	a := proposal.New("a", proposal.Other)
	h := New(0.1).NewHandle(mcts.Sequence{a}, 10)

	calls := 0
	got := h.Optimize(func(seq mcts.Sequence) float64 {
		calls++
		return 42.0
	})
	require.Equal(t, 42.0, got)
	require.Equal(t, 1, calls)
}

func TestDuplicateProposalParamsTrackedOnce(t *testing.T) {
	a := proposal.New("a", proposal.Other)
	a.Params = []float64{2.0}

	h := New(0.1).NewHandle(mcts.Sequence{a, a}, 30).(*Handle)
	require.Len(t, h.params, 1)

	h.Optimize(quadLoss(0.0))
	assert.InDelta(t, 0.0, a.Params[0], 0.1)
}
