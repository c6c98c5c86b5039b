package mcts

import "math"

// nodeUCB computes a visited child's selection confidence:
//
//	exploit = exploit_coeff * score(mode)
//	explore = w(t) * sqrt(2 * ln(parent visits) / child visits)
//
// where w(t) = (1 - t/T)*start_explore_coeff + (t/T)*end_explore_coeff with
// T = num_iters: start_explore_coeff at t = 0, reaching end_explore_coeff
// at t = T (the last iteration, t = T-1, is one step short of it), so the
// search can move from aggressive exploration toward exploitation over its
// lifetime.
func (m *MCTS) nodeUCB(n *Node) (ucb, exploit, explore float64) {
	assertf(n.Visits > 0, "ucb requested for unvisited node %s", n.ID)
	assertf(n.Parent != nil, "ucb requested for root")

	exploit = m.settings.MCTS.ExploitCoeff * n.Score(m.tree.Mode())

	frac := float64(m.iter) / float64(m.numIters)
	w := (1-frac)*m.settings.MCTS.StartExploreCoeff + frac*m.settings.MCTS.EndExploreCoeff

	explore = w * math.Sqrt(2*math.Log(float64(n.Parent.Visits))/float64(n.Visits))
	return exploit + explore, exploit, explore
}
