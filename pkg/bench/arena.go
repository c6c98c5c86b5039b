// Package bench compares two search configurations over the same domain:
// it runs N independent single-agent searches under each Settings and
// reports which configuration produced the better best-path scores.
package bench

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scenetree/mcts/pkg/mcts"
)

// ArenaStats aggregates round outcomes across workers.
type ArenaStats struct {
	aWins  uint32
	bWins  uint32
	draws  uint32
	aScore uint64 // float64 bits, CAS-accumulated
	bScore uint64
}

func (s *ArenaStats) AWins() int { return int(atomic.LoadUint32(&s.aWins)) }
func (s *ArenaStats) BWins() int { return int(atomic.LoadUint32(&s.bWins)) }
func (s *ArenaStats) Draws() int { return int(atomic.LoadUint32(&s.draws)) }

func (s *ArenaStats) Total() int {
	return s.AWins() + s.BWins() + s.Draws()
}

func (s *ArenaStats) addScores(a, b float64) {
	addFloat(&s.aScore, a)
	addFloat(&s.bScore, b)
}

func addFloat(addr *uint64, delta float64) {
	for {
		old := atomic.LoadUint64(addr)
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if atomic.CompareAndSwapUint64(addr, old, next) {
			return
		}
	}
}

// Summary is the arena's final report.
type Summary struct {
	Rounds     int     `json:"rounds"`
	AWins      int     `json:"a_wins"`
	BWins      int     `json:"b_wins"`
	Draws      int     `json:"draws"`
	MeanScoreA float64 `json:"mean_score_a"`
	MeanScoreB float64 `json:"mean_score_b"`
	Workers    int     `json:"workers"`
}

// SettingsArena pits two Settings against each other on the same Game
// domain. Each round runs one full search per side on a fresh Game and
// compares the best-path scores. Rounds are distributed over NWorkers
// goroutines; each individual search stays single-threaded.
type SettingsArena struct {
	ArenaStats

	// NewGame builds a fresh Game per search. Searches run concurrently
	// across workers, so the factory must not hand out shared mutable
	// state.
	NewGame func() mcts.Game

	SettingsA *mcts.Settings
	SettingsB *mcts.Settings

	NRounds  int
	NWorkers int

	wg sync.WaitGroup
}

// NewSettingsArena builds an arena with 100 rounds on 2 workers.
func NewSettingsArena(newGame func() mcts.Game, a, b *mcts.Settings) *SettingsArena {
	return &SettingsArena{
		NewGame:   newGame,
		SettingsA: a,
		SettingsB: b,
		NRounds:   100,
		NWorkers:  2,
	}
}

// Start launches the workers and returns immediately; Wait blocks until
// they finish.
func (sa *SettingsArena) Start() {
	nWorkers := sa.NWorkers
	if nWorkers < 1 {
		nWorkers = 1
	}

	rounds := sa.NRounds / nWorkers
	rest := sa.NRounds % nWorkers

	sa.wg.Add(nWorkers)
	for i := 0; i < nWorkers; i++ {
		delta := 0
		if rest > 0 {
			delta = 1
			rest--
		}
		go sa.worker(i, rounds+delta)
	}
}

// Wait blocks until every worker has finished its rounds.
func (sa *SettingsArena) Wait() {
	sa.wg.Wait()
}

// Run is Start followed by Wait.
func (sa *SettingsArena) Run() Summary {
	sa.Start()
	sa.Wait()
	return sa.Results()
}

// Results summarizes the rounds played so far.
func (sa *SettingsArena) Results() Summary {
	total := sa.Total()
	mean := func(bits *uint64) float64 {
		if total == 0 {
			return 0
		}
		return math.Float64frombits(atomic.LoadUint64(bits)) / float64(total)
	}
	return Summary{
		Rounds:     total,
		AWins:      sa.AWins(),
		BWins:      sa.BWins(),
		Draws:      sa.Draws(),
		MeanScoreA: mean(&sa.aScore),
		MeanScoreB: mean(&sa.bScore),
		Workers:    sa.NWorkers,
	}
}

func (sa *SettingsArena) worker(id, rounds int) {
	defer sa.wg.Done()

	rng := rand.New(rand.NewSource(
		time.Now().UnixNano() ^ (int64(id) << 32) ^ rand.Int63(),
	))

	for round := 0; round < rounds; round++ {
		scoreA := sa.playOne(sa.SettingsA, rng.Int63())
		scoreB := sa.playOne(sa.SettingsB, rng.Int63())

		sa.addScores(scoreA, scoreB)
		switch {
		case scoreA > scoreB:
			atomic.AddUint32(&sa.aWins, 1)
		case scoreB > scoreA:
			atomic.AddUint32(&sa.bWins, 1)
		default:
			atomic.AddUint32(&sa.draws, 1)
		}
	}
}

func (sa *SettingsArena) playOne(settings *mcts.Settings, seed int64) float64 {
	game := sa.NewGame()
	m := mcts.New(game, nil, nil, settings)
	m.SetRand(rand.New(rand.NewSource(seed)))
	m.Run()

	_, leaf := m.GetBestPath()
	return leaf.Score(m.Tree().Mode())
}
