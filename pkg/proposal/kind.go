// Package proposal implements the atomic selectable unit consumed by the
// mcts package: proposals, their incompatibility/neighbor relations, and an
// insertion-ordered pool (set) over them.
package proposal

// Kind tags a Proposal. ROOT, ESC and END are special markers synthesized
// by the tree; only OTHER proposals participate in a scored sequence.
type Kind int

const (
	Root Kind = iota
	Esc
	End
	Other
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "ROOT"
	case Esc:
		return "ESC"
	case End:
		return "END"
	case Other:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// Special reports whether k is one of the three marker kinds that never
// appear in a scored selection.
func (k Kind) Special() bool {
	return k == Root || k == Esc || k == End
}
