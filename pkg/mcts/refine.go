package mcts

// Refinement is a per-leaf refinement handle created by the Game. The
// driver attaches one to a leaf the first time it is scored, lets the
// Game's scoring call use it, and raises its step budget once more for the
// final pass over the best path. The handle's parameters and optimization
// backend are entirely the Game's business.
type Refinement interface {
	// Steps returns the handle's current per-call step budget.
	Steps() int
	// SetSteps adjusts the step budget, used for the final, more thorough
	// refinement pass over the best path's leaf.
	SetSteps(n int)
	// Optimize runs the budgeted number of refinement steps against loss
	// (nil sequence means "the Game's current selected sequence") and
	// returns the last loss value.
	Optimize(loss func(seq Sequence) float64) float64
}

// attachRefinement attaches a fresh refinement handle to n unless it
// already carries one. seq is the selected sequence the handle's trainable
// parameters are gathered from.
func attachRefinement(n *Node, game Game, seq Sequence, steps int) {
	if n.Refinement == nil {
		n.Refinement = game.NewRefinement(seq, steps)
	}
}
