package mcts

import "fmt"

// Logger receives search progress: ResetLogger once at start, LogMCTS once
// per iteration (and once more after the loop), LogFinal last, and
// PrintToLog for free-form trace messages throughout.
type Logger interface {
	ResetLogger()
	LogMCTS(iter int, lastScore float64, lastDepth int, tree *Tree)
	LogFinal(tree *Tree)
	ExportSolution(best Sequence)
	PrintToLog(message string)
}

// NoOpLogger discards everything. Used when the driver is constructed
// without a logger.
type NoOpLogger struct{}

func (NoOpLogger) ResetLogger()                     {}
func (NoOpLogger) LogMCTS(int, float64, int, *Tree) {}
func (NoOpLogger) LogFinal(*Tree)                   {}
func (NoOpLogger) ExportSolution(Sequence)          {}
func (NoOpLogger) PrintToLog(string)                {}

// LineLogger prints one line per event to stdout.
type LineLogger struct {
	// Verbose additionally prints every PrintToLog trace message, which
	// gets noisy at high iteration counts.
	Verbose bool
}

func (LineLogger) ResetLogger() {
	fmt.Println("[mcts] search reset")
}

func (LineLogger) LogMCTS(iter int, lastScore float64, lastDepth int, tree *Tree) {
	root := &tree.Root
	fmt.Printf("[mcts] iter=%d last_score=%.4f last_depth=%d root_score=%.4f root_visits=%d\n",
		iter, lastScore, lastDepth, root.Score(tree.Mode()), root.Visits)
}

func (l LineLogger) LogFinal(tree *Tree) {
	seq, leaf := tree.GetBestPath()
	fmt.Printf("[mcts] final: best score %.3f at depth %d, %d proposals selected\n",
		leaf.Score(tree.Mode()), leaf.Depth, len(seq))
	l.ExportSolution(seq)
}

func (LineLogger) ExportSolution(best Sequence) {
	for i, p := range best {
		fmt.Printf("[mcts]   %d: %s\n", i, p.ID)
	}
}

func (l LineLogger) PrintToLog(message string) {
	if l.Verbose {
		fmt.Println(message)
	}
}
