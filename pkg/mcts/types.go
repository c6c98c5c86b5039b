// Package mcts implements a Monte Carlo Tree Search driver specialized for
// constraint-driven scene composition: selecting a maximal antichain-like
// subset of a finite proposal pool, scored by a domain-supplied Game.
package mcts

import (
	"fmt"

	"github.com/scenetree/mcts/pkg/proposal"
)

// ScoreMode selects how a Node's aggregated score is read back out: the
// running maximum, or the running mean (sum / visits).
type ScoreMode int

const (
	ScoreMax ScoreMode = iota
	ScoreAvg
)

func (m ScoreMode) String() string {
	switch m {
	case ScoreMax:
		return "MAX"
	case ScoreAvg:
		return "AVG"
	default:
		return "UNKNOWN"
	}
}

// ParseScoreMode accepts the "MAX"/"AVG" strings a settings file uses for
// mcts.ucb_score_type.
func ParseScoreMode(s string) (ScoreMode, bool) {
	switch s {
	case "MAX":
		return ScoreMax, true
	case "AVG":
		return ScoreAvg, true
	default:
		return 0, false
	}
}

// UnmarshalYAML lets Settings be loaded directly from the "MAX"/"AVG"
// strings a YAML settings file uses for mcts.ucb_score_type.
func (m *ScoreMode) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	mode, ok := ParseScoreMode(s)
	if !ok {
		return fmt.Errorf("mcts: unsupported ucb_score_type %q (want MAX or AVG)", s)
	}
	*m = mode
	return nil
}

// MarshalYAML renders a ScoreMode back to its "MAX"/"AVG" string form.
func (m ScoreMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// Sequence is a selected run of (non-special) proposals.
type Sequence = []*proposal.Proposal
