package mcts

import "github.com/scenetree/mcts/pkg/proposal"

// Game is the domain collaborator the driver is polymorphic over: it
// enumerates proposals, exposes/mutates a selection state, and grades
// complete selections. Everything about incompatibility relations and
// scoring is the consumer's responsibility; the engine only drives this
// contract.
type Game interface {
	// GenerateProposals builds the full proposal pool, called once at
	// construction.
	GenerateProposals() *proposal.Pool

	// Restart sets the live pool to the full proposal set and clears the
	// selected sequence.
	Restart()

	// GetState returns the current live pool and selected sequence,
	// referenced (not cloned) — callers that need to preserve a snapshot
	// across a mutation must clone defensively.
	GetState() (*proposal.Pool, Sequence)
	// SetState restores a previously obtained state.
	SetState(pool *proposal.Pool, seq Sequence)

	// Step applies prop: appends it to the selected sequence unless it's a
	// special marker, and narrows the live pool by prop's incompatible
	// set. prop must be in the current live pool or be a special marker;
	// violating this is a contract error and panics.
	Step(prop *proposal.Proposal)

	// ScoreFromProposals grades seq (nil means "the Game's current
	// selected sequence"). If refinement is non-nil the implementation may
	// use it to refine proposals' parameters before scoring.
	ScoreFromProposals(seq Sequence, refinement Refinement) float64
	// LossFromProposals computes a loss for seq (nil means "current
	// sequence"), used only when refinement is enabled.
	LossFromProposals(seq Sequence) float64
	// ConvertLossToScore is a monotone-decreasing loss -> score transform.
	ConvertLossToScore(loss float64) float64

	// NewRefinement creates a fresh refinement handle for seq, configured
	// for the given step budget. Implementations that don't support
	// refinement may return nil unconditionally.
	NewRefinement(seq Sequence, steps int) Refinement
}

// BaseGame implements the domain-independent pool/sequence bookkeeping
// every Game needs. Domain Games embed BaseGame and only need to implement
// GenerateProposals, the scoring/loss hooks, and NewRefinement (which may
// simply return nil when refinement is not supported).
type BaseGame struct {
	All      *proposal.Pool
	Pool     *proposal.Pool
	Sequence Sequence
}

// InitBaseGame must be called once, after the embedding Game has built its
// full proposal pool, to seed BaseGame's bookkeeping.
func (g *BaseGame) InitBaseGame(all *proposal.Pool) {
	g.All = all
	g.Restart()
}

// Restart implements Game.Restart.
func (g *BaseGame) Restart() {
	g.Pool = g.All.Clone()
	g.Sequence = nil
}

// GetState implements Game.GetState.
func (g *BaseGame) GetState() (*proposal.Pool, Sequence) {
	return g.Pool, g.Sequence
}

// SetState implements Game.SetState.
func (g *BaseGame) SetState(pool *proposal.Pool, seq Sequence) {
	g.Pool = pool
	g.Sequence = seq
}

// Step implements Game.Step.
func (g *BaseGame) Step(prop *proposal.Proposal) {
	assertf(g.Pool.Contains(prop) || prop.Kind.Special(),
		"step: proposal %q is not in the current pool and is not a special marker", prop.ID)

	if !prop.Kind.Special() {
		g.Sequence = append(g.Sequence, prop)
	}
	g.Pool = g.Pool.Difference(prop.Incompatible)
}
