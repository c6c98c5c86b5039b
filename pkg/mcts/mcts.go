package mcts

import (
	"fmt"
	"math/rand"

	"github.com/scenetree/mcts/pkg/proposal"
)

// MCTS drives the four-phase search loop over a Tree and a Game: descend by
// UCB, expand at the first unvisited node, run a batch of random rollouts,
// and back the scores up to the root. The driver exclusively owns the Game
// and the Tree cursor while Run executes.
type MCTS struct {
	game     Game
	logger   Logger
	tree     *Tree
	settings *Settings

	rng      *rand.Rand
	iter     int
	numIters int
}

// New builds a driver. logger, tree and settings may be nil: a missing
// logger falls back to the no-op logger, a missing tree is freshly created,
// missing settings fall back to DefaultSettings.
func New(game Game, logger Logger, tree *Tree, settings *Settings) *MCTS {
	assertf(game != nil, "nil game")
	if settings == nil {
		settings = DefaultSettings()
	}
	if logger == nil {
		logger = NoOpLogger{}
	}
	if tree == nil {
		tree = NewTree(settings)
	}
	return &MCTS{
		game:     game,
		logger:   logger,
		tree:     tree,
		settings: settings,
		rng:      rand.New(rand.NewSource(rand.Int63())),
	}
}

// Tree returns the search tree, usable for best-path extraction after Run.
func (m *MCTS) Tree() *Tree { return m.tree }

// SetRand replaces the rollout RNG, making simulations reproducible.
func (m *MCTS) SetRand(r *rand.Rand) { m.rng = r }

// descendTree performs the SELECTION phase: one step down from the cursor.
// The first unvisited child short-circuits UCB with infinite confidence;
// otherwise the visited, descendable child with the highest UCB wins.
func (m *MCTS) descendTree() {
	curr := m.tree.CurrentNode()
	pool, _ := m.game.GetState()
	children := m.tree.Children(curr, pool)
	assertf(len(children) > 0, "node %s materialized no children", curr.ID)

	var next *Node
	bestUCB, bestExploit, bestExplore := 0.0, 0.0, 0.0
	isExisting := true
	allChildrenExplored := true

	for i := range children {
		cn := &children[i]

		if cn.IsNew {
			allChildrenExplored = false
			m.logger.PrintToLog(fmt.Sprintf("New node %s at depth %d", cn.Prop.ID, cn.Depth))
			next = cn
			isExisting = false
			break
		}

		if cn.ExploredLock && !m.settings.Tree.VisLocked {
			continue
		}
		allChildrenExplored = false

		ucb, exploit, explore := m.nodeUCB(cn)
		if next == nil || ucb > bestUCB {
			bestUCB, bestExploit, bestExplore = ucb, exploit, explore
			next = cn
			isExisting = true
		}
	}

	// Locks propagate to the ancestors on every backup, so a node whose
	// children are all locked would itself have been locked before descent
	// could reach it.
	assertf(!allChildrenExplored, "descent halted: every child of %s is locked", curr.ID)
	assertf(next != nil, "no child selected under %s", curr.ID)

	if isExisting {
		m.logger.PrintToLog(fmt.Sprintf("ModelID: %s, Depth: %d, numSim: %d, UCB %0.3f, Exploit: %0.3f, Explore: %0.3f",
			next.Prop.ID, next.Depth, next.Visits, bestUCB, bestExploit, bestExplore))
	}

	m.tree.SetCurrentNode(next)
}

// calcScore grades the deterministic path ending at the cursor. A node that
// carries a refinement handle with a positive step budget is refined over
// the Game's loss first; otherwise the Game scores the current sequence
// directly.
func (m *MCTS) calcScore() float64 {
	curr := m.tree.CurrentNode()

	if curr.Refinement != nil && curr.Refinement.Steps() > 0 {
		loss := curr.Refinement.Optimize(m.game.LossFromProposals)
		return m.game.ConvertLossToScore(loss)
	}
	return m.game.ScoreFromProposals(nil, nil)
}

// simulateAndUpdate performs the SIMULATION phase from the cursor: a batch
// of independent uniformly random unfoldings down to END markers, each
// scored and backed up along its rollout path. Returns the best rollout
// score.
func (m *MCTS) simulateAndUpdate() float64 {
	curr := m.tree.CurrentNode()
	m.logger.PrintToLog(fmt.Sprintf("Starting simulation at node %s, depth %d", curr.Prop.ID, curr.Depth))
	curr.IsNew = false

	basePool, baseSeq := m.game.GetState()
	basePool = basePool.Clone()
	baseLen := len(baseSeq)

	simScores := make([]float64, 0, m.settings.MCTS.NumSimIter)
	simSeqs := make([]Sequence, 0, m.settings.MCTS.NumSimIter)

	for it := 0; it < m.settings.MCTS.NumSimIter; it++ {
		// Each rollout restarts from a defensive copy of the pre-batch
		// sequence; Step grows it in place.
		seq := append(Sequence(nil), baseSeq[:baseLen]...)
		m.game.SetState(basePool, seq)
		m.tree.SetCurrentNode(curr)

		simCurr := curr
		for {
			pool, _ := m.game.GetState()
			children := m.tree.Children(simCurr, pool)
			simCurr = &children[m.rng.Intn(len(children))]

			m.tree.SetCurrentNode(simCurr)
			m.game.Step(simCurr.Prop)

			if simCurr.Prop.Kind != proposal.End {
				continue
			}

			if m.settings.MCTS.Refinement.OptimizeSteps > 0 {
				_, rolloutSeq := m.game.GetState()
				attachRefinement(simCurr, m.game, rolloutSeq, m.settings.MCTS.Refinement.OptimizeSteps)
			}

			score := m.game.ScoreFromProposals(nil, simCurr.Refinement)
			m.updateTree(score)

			_, rolloutSeq := m.game.GetState()
			simScores = append(simScores, score)
			simSeqs = append(simSeqs, rolloutSeq)
			break
		}
	}

	best := 0
	for i := range simScores {
		if simScores[i] > simScores[best] {
			best = i
		}
	}

	// Only the winning rollout's sequence is restored; the pool stays as
	// the last rollout left it until the next outer-loop restart, so it
	// must not be read before then.
	pool, _ := m.game.GetState()
	m.game.SetState(pool, simSeqs[best])

	return simScores[best]
}

// updateTree performs the BACKPROPAGATION phase: folds score into every
// node from the cursor up to and including the root, then propagates
// explored locks along the same chain. Restores the cursor.
func (m *MCTS) updateTree(score float64) {
	m.logger.PrintToLog(fmt.Sprintf("Updating tree with score %0.2f", score))

	saved := m.tree.CurrentNode()
	for {
		n := m.tree.CurrentNode()
		n.update(score)
		if n.Prop.Kind == proposal.Root {
			break
		}
		m.tree.VisitParent()
	}
	m.tree.SetCurrentNode(saved)

	m.tree.CheckAndLock()
}

// Run executes the full search loop, followed by the optional final
// refinement pass over the best path's leaf.
func (m *MCTS) Run() {
	m.logger.ResetLogger()

	m.numIters = m.settings.MCTS.NumIters
	scoreCurr := -1.0

	for m.iter = 0; m.iter < m.numIters; m.iter++ {
		m.logger.PrintToLog(fmt.Sprintf("Starting iteration %d of %d", m.iter, m.numIters))

		m.tree.ResetCurrentNode()
		m.game.Restart()

		// A locked root means every path has been explored.
		if m.tree.Root.ExploredLock && !m.settings.MCTS.VisLocked {
			m.logger.PrintToLog("Root locked, stopping")
			break
		}

		for {
			m.descendTree()
			curr := m.tree.CurrentNode()

			if curr.Prop.Kind == proposal.End {
				if curr.IsNew && m.settings.MCTS.Refinement.OptimizeSteps > 0 {
					_, seq := m.game.GetState()
					attachRefinement(curr, m.game, seq, m.settings.MCTS.Refinement.OptimizeSteps)
				}
				scoreCurr = m.calcScore()
				m.updateTree(scoreCurr)
				break
			}

			m.game.Step(curr.Prop)
			if curr.IsNew {
				scoreCurr = m.simulateAndUpdate()
				break
			}
		}

		m.logger.LogMCTS(m.iter, scoreCurr, m.tree.CurrentNode().Depth, m.tree)
	}

	m.logger.LogMCTS(m.iter, scoreCurr, m.tree.CurrentNode().Depth, m.tree)

	m.tree.ResetCurrentNode()
	m.game.Restart()

	if steps := m.settings.MCTS.Refinement.FinalOptimizationSteps; steps > 0 {
		best, leaf := m.tree.GetBestPath()
		if leaf.Refinement != nil {
			leaf.Refinement.SetSteps(steps)
			m.game.ScoreFromProposals(best, leaf.Refinement)
		}
	}

	m.logger.LogFinal(m.tree)
}

// GetBestPath extracts the best path from the underlying tree.
func (m *MCTS) GetBestPath() (Sequence, *Node) {
	return m.tree.GetBestPath()
}
