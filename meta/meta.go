// meta/meta.go
package meta

// Q-learning defaults.
const (
	Epsilon      = 0.2
	LearningRate = 0.1
	Discount     = 0.95
)

// TrainingEpisodes is the default number of self-play games per training run.
const TrainingEpisodes = 100_000

// LogEvery is the number of episodes between training progress logs.
const LogEvery = 1000

// EvaluationGames is the default number of games per evaluation match-up.
const EvaluationGames = 1000

// Goroutines defines the number of goroutines used by evaluation and MCTS.
const Goroutines = 8

// MCTSEpisodes defines the number of MCTS episodes per move.
const MCTSEpisodes = 2000

// MCTSCutoff defines the rollout depth cutoff for MCTS.
const MCTSCutoff = 42

// ServerAddr is the default listen address of the agent server.
const ServerAddr = ":8080"
