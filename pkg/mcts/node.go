package mcts

import "github.com/scenetree/mcts/pkg/proposal"

// Node is a vertex in the search tree. Children are owned as a value slice,
// allocated once in Tree.Children and never reallocated afterwards, so the
// non-owning *Node parent back-references taken into that slice stay valid
// for the tree's lifetime.
type Node struct {
	ID     string
	Parent *Node
	Depth  int
	Prop   *proposal.Proposal

	score  nodeScore
	Visits int
	IsNew  bool

	Children           []Node
	ExploredLock       bool
	AllChildrenCreated bool

	// Refinement is the node's per-leaf refinement handle, attached lazily
	// the first time a leaf is reached. nil when refinement is disabled or
	// the Game doesn't support it.
	Refinement Refinement
}

func newNode(prop *proposal.Proposal, parent *Node) Node {
	n := Node{
		Prop:   prop,
		Parent: parent,
		score:  newNodeScore(),
		IsNew:  true,
	}
	if parent == nil {
		n.ID = prop.ID
		n.Depth = 0
	} else {
		n.ID = prop.ID + "_" + parent.ID
		n.Depth = parent.Depth + 1
	}
	if prop.Kind == proposal.End {
		// END nodes are terminal: born locked, no children ever.
		n.ExploredLock = true
		n.AllChildrenCreated = true
	}
	return n
}

// Score returns the node's aggregated score under mode, dividing the raw
// running sum by the visit count for ScoreAvg. With zero visits under
// ScoreAvg it returns the raw sum unchanged.
func (n *Node) Score(mode ScoreMode) float64 {
	raw := n.score.raw(mode)
	if mode == ScoreAvg && n.Visits > 0 {
		return raw / float64(n.Visits)
	}
	return raw
}

// update backs up a single score: increments the visit count and folds s
// into the running aggregate. The first backup through a node ends its
// "new" phase.
func (n *Node) update(s float64) {
	n.Visits++
	n.IsNew = false
	n.score.update(s)
}

// existingNonEscSiblingProps returns the proposals carried by n's already
// materialized siblings that are not themselves ESC nodes. Used by ESC-node
// candidate computation: an escape branch must not re-offer cohort members
// that already exist next to it.
func existingNonEscSiblingProps(n *Node) *proposal.Pool {
	out := proposal.NewPool()
	if n.Parent == nil {
		return out
	}
	for i := range n.Parent.Children {
		sib := &n.Parent.Children[i]
		if sib.Prop.Kind != proposal.Esc {
			out.Add(sib.Prop)
		}
	}
	return out
}
