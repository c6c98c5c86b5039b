package mcts

// RefinementSettings controls the optional per-leaf gradient refinement
// hook. OptimizeSteps == 0 disables refinement entirely.
type RefinementSettings struct {
	OptimizeSteps          int     `yaml:"optimize_steps"`
	FinalOptimizationSteps int     `yaml:"final_optimization_steps"`
	OptimizerLR            float64 `yaml:"optimizer_lr"`
}

// TreeSettings controls child materialization and locked-branch descent.
type TreeSettings struct {
	SibNodesLimit int  `yaml:"sib_nodes_limit"`
	AddEscNodes   bool `yaml:"add_esc_nodes"`
	VisLocked     bool `yaml:"vis_locked"`
}

// MCTSSettings controls the search driver.
type MCTSSettings struct {
	NumIters          int                `yaml:"num_iters"`
	NumSimIter        int                `yaml:"num_sim_iter"`
	UCBScoreType      ScoreMode          `yaml:"ucb_score_type"`
	ExploitCoeff      float64            `yaml:"exploit_coeff"`
	StartExploreCoeff float64            `yaml:"start_explore_coeff"`
	EndExploreCoeff   float64            `yaml:"end_explore_coeff"`
	VisLocked         bool               `yaml:"vis_locked"`
	Refinement        RefinementSettings `yaml:"refinement"`
}

// Settings is the full recognized settings schema. The core package never
// parses these from a file — loading is a consumer concern; this is a plain
// struct with a default constructor. The yaml tags exist so an external
// loader can bind a settings file directly onto it.
type Settings struct {
	MCTS MCTSSettings `yaml:"mcts"`
	Tree TreeSettings `yaml:"tree"`
}

// DefaultSettings returns reasonable defaults: 1000 iterations, 4 rollouts
// per expansion, MAX score aggregation, no sibling limit, no ESC nodes, no
// refinement.
func DefaultSettings() *Settings {
	return &Settings{
		MCTS: MCTSSettings{
			NumIters:          1000,
			NumSimIter:        4,
			UCBScoreType:      ScoreMax,
			ExploitCoeff:      1.0,
			StartExploreCoeff: 1.0,
			EndExploreCoeff:   0.1,
			VisLocked:         false,
			Refinement: RefinementSettings{
				OptimizeSteps:          0,
				FinalOptimizationSteps: 0,
				OptimizerLR:            0.01,
			},
		},
		Tree: TreeSettings{
			SibNodesLimit: 0,
			AddEscNodes:   false,
			VisLocked:     false,
		},
	}
}
