package mcts

import "fmt"

// assertf panics with a bracket-tagged message when cond is false. Contract
// violations are fatal by design: the driver never silently continues past
// one.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("[mcts] "+format, args...))
	}
}
