// Command scenedemo runs the scene-composition search on the demo room
// domain: it loads a YAML settings file, wires a colored console logger,
// runs the search and prints the selected layout.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/scenetree/mcts/examples/roomscene"
	"github.com/scenetree/mcts/pkg/mcts"
	"github.com/scenetree/mcts/pkg/vizlogger"
)

func loadSettings(path string) (*mcts.Settings, error) {
	settings := mcts.DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading settings %s", path)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrapf(err, "parsing settings %s", path)
	}
	return settings, nil
}

// consoleLogger prints a colored progress line per iteration.
type consoleLogger struct {
	out *termenv.Output
}

func newConsoleLogger() *consoleLogger {
	return &consoleLogger{out: termenv.NewOutput(os.Stdout)}
}

func (l *consoleLogger) ResetLogger() {
	fmt.Fprintln(l.out, l.out.String("scene search starting").Bold())
}

func (l *consoleLogger) LogMCTS(iter int, lastScore float64, lastDepth int, tree *mcts.Tree) {
	score := l.out.String(fmt.Sprintf("%.4f", lastScore)).Foreground(l.out.Color("6"))
	fmt.Fprintf(l.out, "iter %4d  score %s  depth %d  root visits %d\n",
		iter, score, lastDepth, tree.Root.Visits)
}

func (l *consoleLogger) LogFinal(tree *mcts.Tree) {
	seq, leaf := tree.GetBestPath()
	headline := fmt.Sprintf("best score %.4f at depth %d", leaf.Score(tree.Mode()), leaf.Depth)
	fmt.Fprintln(l.out, l.out.String(headline).Foreground(l.out.Color("2")).Bold())
	l.ExportSolution(seq)
}

func (l *consoleLogger) ExportSolution(best mcts.Sequence) {
	for i, p := range best {
		fmt.Fprintf(l.out, "  %2d. %s\n", i+1, l.out.String(p.ID).Foreground(l.out.Color("3")))
	}
}

func (l *consoleLogger) PrintToLog(string) {}

func run() error {
	var (
		settingsPath = flag.String("settings", "", "YAML settings file (defaults built in)")
		iters        = flag.Int("iters", 0, "override mcts.num_iters")
		seed         = flag.Int64("seed", 0, "rollout RNG seed (0 uses a random seed)")
		roomW        = flag.Float64("room-width", 10, "room width")
		roomH        = flag.Float64("room-height", 8, "room height")
		lr           = flag.Float64("lr", 0, "refinement learning rate (0 disables refinement)")
		vizDir       = flag.String("viz", "", "also export Graphviz tree dumps to this directory")
	)
	flag.Parse()

	settings, err := loadSettings(*settingsPath)
	if err != nil {
		return err
	}
	if *iters > 0 {
		settings.MCTS.NumIters = *iters
	}
	if *lr > 0 {
		settings.MCTS.Refinement.OptimizerLR = *lr
		if settings.MCTS.Refinement.OptimizeSteps == 0 {
			settings.MCTS.Refinement.OptimizeSteps = 10
		}
		if settings.MCTS.Refinement.FinalOptimizationSteps == 0 {
			settings.MCTS.Refinement.FinalOptimizationSteps = 50
		}
	}

	game := roomscene.NewGame(*roomW, *roomH, roomscene.Catalog(*roomW, *roomH), *lr)

	var logger mcts.Logger = newConsoleLogger()
	var viz *vizlogger.Logger
	if *vizDir != "" {
		viz = vizlogger.New(*vizDir)
		logger = teeLogger{logger, viz}
	}

	m := mcts.New(game, logger, nil, settings)
	if *seed != 0 {
		m.SetRand(rand.New(rand.NewSource(*seed)))
	}
	m.Run()

	if viz != nil && viz.Err() != nil {
		return viz.Err()
	}
	return nil
}

// teeLogger fans every logging call out to both sinks.
type teeLogger struct {
	a, b mcts.Logger
}

func (t teeLogger) ResetLogger() { t.a.ResetLogger(); t.b.ResetLogger() }

func (t teeLogger) LogMCTS(iter int, lastScore float64, lastDepth int, tree *mcts.Tree) {
	t.a.LogMCTS(iter, lastScore, lastDepth, tree)
	t.b.LogMCTS(iter, lastScore, lastDepth, tree)
}

func (t teeLogger) LogFinal(tree *mcts.Tree) { t.a.LogFinal(tree); t.b.LogFinal(tree) }

func (t teeLogger) ExportSolution(best mcts.Sequence) {
	t.a.ExportSolution(best)
	t.b.ExportSolution(best)
}

func (t teeLogger) PrintToLog(msg string) { t.a.PrintToLog(msg); t.b.PrintToLog(msg) }

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scenedemo:", err)
		os.Exit(1)
	}
}
