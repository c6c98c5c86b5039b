package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenetree/mcts/pkg/mcts"
	"github.com/scenetree/mcts/pkg/proposal"
)

type pickOneGame struct {
	mcts.BaseGame
	values map[string]float64
}

func (g *pickOneGame) GenerateProposals() *proposal.Pool { return g.All }

func (g *pickOneGame) ScoreFromProposals(seq mcts.Sequence, _ mcts.Refinement) float64 {
	if seq == nil {
		seq = g.Sequence
	}
	score := 0.0
	for _, p := range seq {
		score += g.values[p.ID]
	}
	return score
}

func (g *pickOneGame) LossFromProposals(seq mcts.Sequence) float64 {
	return -g.ScoreFromProposals(seq, nil)
}

func (g *pickOneGame) ConvertLossToScore(loss float64) float64 { return -loss }

func (g *pickOneGame) NewRefinement(mcts.Sequence, int) mcts.Refinement { return nil }

// newPickOneGame yields a three-way mutually exclusive choice with a single
// best answer, small enough that any reasonable search finds it.
func newPickOneGame() mcts.Game {
	a := proposal.New("a", proposal.Other)
	b := proposal.New("b", proposal.Other)
	c := proposal.New("c", proposal.Other)
	proposal.MakeIncompatible(a, b)
	proposal.MakeIncompatible(a, c)
	proposal.MakeIncompatible(b, c)

	g := &pickOneGame{values: map[string]float64{"a": 0.2, "b": 0.9, "c": 0.5}}
	g.InitBaseGame(proposal.NewPool(a, b, c))
	return g
}

func smallSettings(iters int) *mcts.Settings {
	s := mcts.DefaultSettings()
	s.MCTS.NumIters = iters
	s.MCTS.NumSimIter = 2
	return s
}

func TestArenaAccountsEveryRound(t *testing.T) {
	arena := NewSettingsArena(newPickOneGame, smallSettings(20), smallSettings(20))
	arena.NRounds = 10
	arena.NWorkers = 3

	summary := arena.Run()

	require.Equal(t, 10, summary.Rounds)
	assert.Equal(t, 10, summary.AWins+summary.BWins+summary.Draws)
}

func TestArenaEqualSettingsDraw(t *testing.T) {
	// Both sides fully explore this tiny domain, so every round resolves
	// to the same optimum.
	arena := NewSettingsArena(newPickOneGame, smallSettings(30), smallSettings(30))
	arena.NRounds = 6
	arena.NWorkers = 2

	summary := arena.Run()

	require.Equal(t, 6, summary.Draws)
	assert.InDelta(t, 0.9, summary.MeanScoreA, 1e-9)
	assert.InDelta(t, 0.9, summary.MeanScoreB, 1e-9)
}

func TestArenaSingleWorkerHandlesAllRounds(t *testing.T) {
	arena := NewSettingsArena(newPickOneGame, smallSettings(20), smallSettings(20))
	arena.NRounds = 4
	arena.NWorkers = 1

	summary := arena.Run()
	require.Equal(t, 4, summary.Rounds)
}
