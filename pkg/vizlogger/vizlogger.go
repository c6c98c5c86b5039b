// Package vizlogger exports the live search tree as Graphviz dot files: a
// node per drawn tree vertex (the TopK best children of each node, down to
// MaxDepth) labeled with its aggregated score and visit count, and red
// edges into locked branches.
package vizlogger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"github.com/scenetree/mcts/pkg/mcts"
)

const graphName = "mcts"

// Logger implements the engine's logging contract by dumping the tree to
// OutDir. Dot-file writes can fail long after the caller stopped looking,
// so failures are collected and surfaced through Err instead of aborting
// the search.
type Logger struct {
	// OutDir receives the generated files. Created on ResetLogger.
	OutDir string
	// TopK bounds how many children per node are drawn, by descending
	// score. 0 draws all of them.
	TopK int
	// MaxDepth bounds the drawn tree depth. -1 draws the whole tree.
	MaxDepth int
	// Every dumps an intermediate tree_<iter>.dot every Every iterations.
	// 0 only dumps the final tree.
	Every int

	err error
}

// New returns a Logger writing to outDir, drawing the 2 best children per
// node over the full depth, final tree only.
func New(outDir string) *Logger {
	return &Logger{OutDir: outDir, TopK: 2, MaxDepth: -1}
}

// Err returns the first failure encountered while exporting, if any.
func (l *Logger) Err() error { return l.err }

func (l *Logger) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}

// ResetLogger implements mcts.Logger.
func (l *Logger) ResetLogger() {
	l.err = nil
	if err := os.MkdirAll(l.OutDir, 0o755); err != nil {
		l.fail(errors.Wrapf(err, "creating output dir %s", l.OutDir))
	}
}

// LogMCTS implements mcts.Logger.
func (l *Logger) LogMCTS(iter int, lastScore float64, lastDepth int, tree *mcts.Tree) {
	if l.Every <= 0 || iter%l.Every != 0 {
		return
	}
	l.dump(tree, fmt.Sprintf("tree_%06d.dot", iter))
}

// LogFinal implements mcts.Logger.
func (l *Logger) LogFinal(tree *mcts.Tree) {
	l.dump(tree, "tree_final.dot")

	seq, _ := tree.GetBestPath()
	l.ExportSolution(seq)
}

// ExportSolution implements mcts.Logger: the best proposals' ids, one per
// line.
func (l *Logger) ExportSolution(best mcts.Sequence) {
	var b strings.Builder
	for _, p := range best {
		b.WriteString(p.ID)
		b.WriteByte('\n')
	}
	path := filepath.Join(l.OutDir, "solution.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		l.fail(errors.Wrapf(err, "writing solution %s", path))
	}
}

// PrintToLog implements mcts.Logger. Trace messages are dropped; this
// logger only materializes trees.
func (l *Logger) PrintToLog(string) {}

func (l *Logger) dump(tree *mcts.Tree, name string) {
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		l.fail(errors.Wrap(err, "naming graph"))
		return
	}
	if err := g.SetDir(true); err != nil {
		l.fail(errors.Wrap(err, "directing graph"))
		return
	}

	root := &tree.Root
	l.addNode(g, tree, root)
	l.addChildren(g, tree, root, 0)

	path := filepath.Join(l.OutDir, name)
	if err := os.WriteFile(path, []byte(g.String()), 0o644); err != nil {
		l.fail(errors.Wrapf(err, "writing %s", path))
	}
}

func (l *Logger) addNode(g *gographviz.Graph, tree *mcts.Tree, n *mcts.Node) {
	label := fmt.Sprintf("score=%0.3f\\nn=%d\\n%s", n.Score(tree.Mode()), n.Visits, n.Prop.ID)
	if err := g.AddNode(graphName, quote(n.ID), map[string]string{"label": quote(label)}); err != nil {
		l.fail(errors.Wrapf(err, "adding node %s", n.ID))
	}
}

func (l *Logger) addChildren(g *gographviz.Graph, tree *mcts.Tree, n *mcts.Node, depth int) {
	if len(n.Children) == 0 || depth == l.MaxDepth {
		return
	}

	idx := make([]int, len(n.Children))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return n.Children[idx[a]].Score(tree.Mode()) > n.Children[idx[b]].Score(tree.Mode())
	})
	if l.TopK > 0 && len(idx) > l.TopK {
		idx = idx[:l.TopK]
	}

	for _, i := range idx {
		c := &n.Children[i]
		l.addNode(g, tree, c)

		attrs := map[string]string(nil)
		if c.ExploredLock {
			attrs = map[string]string{"color": "red"}
		}
		if err := g.AddEdge(quote(n.ID), quote(c.ID), true, attrs); err != nil {
			l.fail(errors.Wrapf(err, "adding edge %s -> %s", n.ID, c.ID))
		}

		l.addChildren(g, tree, c, depth+1)
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
