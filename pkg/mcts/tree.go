package mcts

import (
	"fmt"

	"github.com/scenetree/mcts/pkg/proposal"
)

// Tree owns the root and a cursor to the "current node". It materializes
// children on demand by filtering the live pool, maintains the
// explored-lock pruning state, and extracts the best path after a search.
type Tree struct {
	Root Node
	mode ScoreMode

	sibNodesLimit int
	addEscNodes   bool

	curr *Node

	// ESC/END id counters, scoped to this tree instance so that
	// independent searches never share marker ids.
	escCounter int
	endCounter int
}

// NewTree builds an empty tree (just a ROOT node) using the given settings'
// tree-construction rules and score mode.
func NewTree(settings *Settings) *Tree {
	t := &Tree{
		mode:          settings.MCTS.UCBScoreType,
		sibNodesLimit: settings.Tree.SibNodesLimit,
		addEscNodes:   settings.Tree.AddEscNodes,
	}
	t.Root = newNode(proposal.New("ROOT", proposal.Root), nil)
	t.curr = &t.Root
	return t
}

// Mode returns the score-aggregation mode this tree was built with.
func (t *Tree) Mode() ScoreMode { return t.mode }

func (t *Tree) nextEscProp() *proposal.Proposal {
	t.escCounter++
	return proposal.New(fmt.Sprintf("ESC%d", t.escCounter), proposal.Esc)
}

func (t *Tree) nextEndProp() *proposal.Proposal {
	t.endCounter++
	return proposal.New(fmt.Sprintf("END%d", t.endCounter), proposal.End)
}

// CurrentNode returns the tree's cursor.
func (t *Tree) CurrentNode() *Node { return t.curr }

// SetCurrentNode moves the cursor to node.
func (t *Tree) SetCurrentNode(n *Node) { t.curr = n }

// ResetCurrentNode moves the cursor back to the root.
func (t *Tree) ResetCurrentNode() { t.curr = &t.Root }

// VisitParent moves the cursor to its parent. Asserts the cursor isn't
// already at the root.
func (t *Tree) VisitParent() {
	assertf(t.curr != &t.Root, "visit_parent called on root")
	t.curr = t.curr.Parent
}

// CheckAndLock walks from the cursor toward the root, locking every node
// whose children are all locked, stopping at the first node with an
// unlocked child. A childless non-END node is never lockable. The root
// itself locks once all of its children are locked, which is what
// terminates the outer search loop early. Restores the cursor.
func (t *Tree) CheckAndLock() {
	saved := t.curr
	for {
		cur := t.curr
		allLocked := true
		for i := range cur.Children {
			if !cur.Children[i].ExploredLock {
				allLocked = false
				break
			}
		}
		if !allLocked {
			break
		}
		if len(cur.Children) == 0 && cur.Prop.Kind != proposal.End {
			break
		}
		cur.ExploredLock = true
		if cur.Prop.Kind == proposal.Root {
			break
		}
		t.VisitParent()
	}
	t.curr = saved
}

// computeCandidates computes the raw candidate set C for n given the live
// pool, before sib_nodes_limit truncation and ESC augmentation.
func (t *Tree) computeCandidates(n *Node, pool *proposal.Pool) *proposal.Pool {
	switch n.Prop.Kind {
	case proposal.Root:
		// The first pool element seeds the level: it and everything it
		// excludes form the mutually exclusive cohort.
		seed := pool.First()
		return pool.Intersect(seed.Incompatible)

	case proposal.Esc:
		neighbors := n.Prop.Neighbors.Intersect(pool)
		if neighbors.Empty() {
			neighbors = pool.Clone()
		}
		existing := existingNonEscSiblingProps(n)
		remaining := neighbors.Difference(existing)
		if remaining.Empty() {
			return proposal.NewPool()
		}
		candidates := remaining.Intersect(remaining.First().Incompatible)
		if candidates.Len() == 1 {
			// Prevents a degenerate one-child escape expansion.
			return proposal.NewPool()
		}
		return candidates

	default: // OTHER
		neighbors := n.Prop.Neighbors.Intersect(pool)
		if neighbors.Empty() {
			neighbors = pool.Clone()
		}
		seed := neighbors.First()
		return pool.Intersect(seed.Incompatible)
	}
}

// Children materializes n's children from the given live pool and returns
// them. Materialization is idempotent: once n.Children is non-nil it is
// returned as-is. An empty pool, or an empty candidate set, produces a
// single synthetic END child.
func (t *Tree) Children(n *Node, pool *proposal.Pool) []Node {
	if n.Prop.Kind == proposal.End {
		return nil
	}
	if n.Children != nil {
		return n.Children
	}

	assertf(pool != nil, "nil live pool while materializing children of %s", n.ID)

	if pool.Empty() {
		t.appendEndChild(n)
		return n.Children
	}

	candidates := t.computeCandidates(n, pool)

	if t.sibNodesLimit > 0 {
		candidates = candidates.Truncate(t.sibNodesLimit)
	}

	if t.addEscNodes && !candidates.Empty() {
		// The escape child's incompatible set is the whole cohort, so
		// stepping it skips this level entirely.
		esc := t.nextEscProp()
		esc.Incompatible = candidates.Clone()
		for _, nb := range n.Prop.Neighbors.Slice() {
			esc.AddNeighbor(nb)
		}
		candidates = candidates.Union(proposal.NewPool(esc))
	}

	if candidates.Empty() {
		t.appendEndChild(n)
		return n.Children
	}

	n.Children = make([]Node, candidates.Len())
	for i, cp := range candidates.Slice() {
		n.Children[i] = newNode(cp, n)
	}
	n.AllChildrenCreated = true
	return n.Children
}

func (t *Tree) appendEndChild(n *Node) {
	end := t.nextEndProp()
	n.Children = []Node{newNode(end, n)}
	n.AllChildrenCreated = true
}

// pickBestChild returns the child of n with the highest Score(mode),
// breaking ties by first occurrence.
func pickBestChild(n *Node, mode ScoreMode) *Node {
	assertf(len(n.Children) > 0, "pickBestChild called on a childless node %s", n.ID)
	best := &n.Children[0]
	bestScore := best.Score(mode)
	for i := 1; i < len(n.Children); i++ {
		ch := &n.Children[i]
		if s := ch.Score(mode); s > bestScore {
			bestScore = s
			best = ch
		}
	}
	return best
}

// GetBestPath walks from the root repeatedly selecting the highest-scoring
// child until an END node or a node without materialized children is
// reached, returning the non-special proposals encountered plus the
// terminal leaf node. Restores the cursor to its prior value.
func (t *Tree) GetBestPath() (Sequence, *Node) {
	saved := t.curr
	defer func() { t.curr = saved }()

	cur := &t.Root
	var seq Sequence
	for {
		if !cur.Prop.Kind.Special() {
			seq = append(seq, cur.Prop)
		}
		if cur.Prop.Kind == proposal.End || len(cur.Children) == 0 {
			break
		}
		cur = pickBestChild(cur, t.mode)
	}
	return seq, cur
}
