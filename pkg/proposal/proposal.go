package proposal

// Proposal is an atomic selectable item. Identity, equality and hashing are
// by ID — two *Proposal values with the same ID are considered the same
// proposal by every Pool operation.
type Proposal struct {
	ID   string
	Kind Kind

	// Incompatible always contains the proposal itself, so filtering a
	// pool through it also removes the chosen item.
	Incompatible *Pool
	// Neighbors expresses local preference: candidates computed from a
	// proposal prefer its neighbors (intersected with the live pool) over
	// the rest of the pool.
	Neighbors *Pool

	// Params holds whatever numeric parameters a domain proposal exposes
	// for gradient-based refinement. nil for proposals that don't
	// participate in refinement, including every special marker.
	Params []float64
}

// New constructs a proposal with the given id and kind. Its incompatible
// set contains itself from the start.
func New(id string, kind Kind) *Proposal {
	p := &Proposal{
		ID:           id,
		Kind:         kind,
		Incompatible: NewPool(),
		Neighbors:    NewPool(),
	}
	p.Incompatible.Add(p)
	return p
}

// AddNeighbor records other as a neighbor-preference of p.
func (p *Proposal) AddNeighbor(other *Proposal) {
	p.Neighbors.Add(other)
}

// AddIncompatible records other as incompatible with p.
func (p *Proposal) AddIncompatible(other *Proposal) {
	p.Incompatible.Add(other)
}

// MakeIncompatible is a convenience for marking a and b mutually
// incompatible (adds each to the other's set).
func MakeIncompatible(a, b *Proposal) {
	a.AddIncompatible(b)
	b.AddIncompatible(a)
}
