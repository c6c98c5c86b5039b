// Package refine provides a gradient-descent implementation of the engine's
// per-leaf refinement hook: a handle gathers the trainable parameter
// vectors of a selected sequence and nudges them against the Game's loss.
package refine

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/scenetree/mcts/pkg/mcts"
	"github.com/scenetree/mcts/pkg/proposal"
)

// Refiner creates refinement handles with a shared learning rate. A Game
// that supports refinement typically owns one and delegates its
// NewRefinement to it.
type Refiner struct {
	LR float64
}

// New returns a Refiner with the given learning rate.
func New(lr float64) *Refiner {
	return &Refiner{LR: lr}
}

// NewHandle gathers the trainable parameters of seq's proposals into a
// fresh handle budgeted for steps optimization steps per call. Proposals
// without parameters contribute nothing; a sequence with no parameters at
// all yields a handle whose Optimize only evaluates the loss.
func (r *Refiner) NewHandle(seq mcts.Sequence, steps int) mcts.Refinement {
	h := &Handle{seq: seq, lr: r.LR, steps: steps}
	seen := make(map[*proposal.Proposal]bool, len(seq))
	for _, p := range seq {
		if len(p.Params) == 0 || seen[p] {
			continue
		}
		seen[p] = true
		h.params = append(h.params, p.Params)
	}
	return h
}

// Handle is a refinement token over one selected sequence. It writes
// refined values back into the proposals' parameter slices in place, so a
// later rescoring of the same sequence sees the refined geometry.
type Handle struct {
	seq    mcts.Sequence
	params [][]float64
	lr     float64
	steps  int
}

// Steps returns the per-call step budget.
func (h *Handle) Steps() int { return h.steps }

// SetSteps adjusts the per-call step budget.
func (h *Handle) SetSteps(n int) { h.steps = n }

// Optimize runs the budgeted number of plain gradient-descent steps against
// loss, estimating the gradient by central finite differences, and returns
// the loss at the refined parameters.
func (h *Handle) Optimize(loss func(seq mcts.Sequence) float64) float64 {
	if len(h.params) == 0 {
		return loss(h.seq)
	}

	x := h.gather()
	f := func(x []float64) float64 {
		h.scatter(x)
		return loss(h.seq)
	}

	grad := make([]float64, len(x))
	for step := 0; step < h.steps; step++ {
		fd.Gradient(grad, f, x, &fd.Settings{Formula: fd.Central})
		floats.AddScaled(x, -h.lr, grad)
	}

	h.scatter(x)
	return loss(h.seq)
}

// gather concatenates the tracked parameter vectors.
func (h *Handle) gather() []float64 {
	n := 0
	for _, p := range h.params {
		n += len(p)
	}
	x := make([]float64, 0, n)
	for _, p := range h.params {
		x = append(x, p...)
	}
	return x
}

// scatter writes x back into the tracked parameter vectors in place.
func (h *Handle) scatter(x []float64) {
	off := 0
	for _, p := range h.params {
		copy(p, x[off:off+len(p)])
		off += len(p)
	}
}
