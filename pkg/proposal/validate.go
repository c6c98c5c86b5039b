package proposal

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate checks a domain's generated pool for the structural invariants
// every Proposal must satisfy before a search starts, collecting every
// violation instead of failing on the first.
func Validate(pool *Pool) error {
	var result *multierror.Error

	seen := make(map[string]bool, pool.Len())
	for _, p := range pool.Slice() {
		if p.ID == "" {
			result = multierror.Append(result, fmt.Errorf("proposal with empty id"))
			continue
		}
		if seen[p.ID] {
			result = multierror.Append(result, fmt.Errorf("duplicate proposal id %q", p.ID))
		}
		seen[p.ID] = true

		if p.Incompatible == nil || !p.Incompatible.Contains(p) {
			result = multierror.Append(result, fmt.Errorf("proposal %q is not self-incompatible", p.ID))
		}

		if p.Kind.Special() {
			result = multierror.Append(result, fmt.Errorf("proposal %q uses a reserved marker kind %s", p.ID, p.Kind))
		}
	}

	for _, p := range pool.Slice() {
		for _, n := range p.Neighbors.Slice() {
			if !seen[n.ID] {
				result = multierror.Append(result, fmt.Errorf("proposal %q has dangling neighbor %q", p.ID, n.ID))
			}
		}
		for _, inc := range p.Incompatible.Slice() {
			if inc.ID != p.ID && !seen[inc.ID] {
				result = multierror.Append(result, fmt.Errorf("proposal %q has dangling incompatible %q", p.ID, inc.ID))
			}
		}
	}

	return result.ErrorOrNil()
}
