package agent

import (
	"sync"

	"connect/game"
	"connect/learner"
	"connect/searcher"

	"golang.org/x/exp/rand"
)

type Agent interface {
	// FindMove returns a legal move for the side to move on board. It must not mutate board.
	FindMove(board *game.Board) (game.Move, error)
}

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns an agent playing uniformly random legal moves.
func NewRandom(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(board *game.Board) (game.Move, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return board.RandomMove(a.rng)
}

type optimalAgent struct {
	solver *searcher.Solver
}

// NewOptimal plays the solver's cached minimax move.
func NewOptimal(solver *searcher.Solver) Agent {
	return optimalAgent{solver: solver}
}

func (a optimalAgent) FindMove(board *game.Board) (game.Move, error) {
	return a.solver.OptimalMove(board)
}

type learnedAgent struct {
	learner *learner.Agent
}

// NewLearned plays the greedy policy of a trained Q-learning agent.
func NewLearned(l *learner.Agent) Agent {
	return learnedAgent{learner: l}
}

func (a learnedAgent) FindMove(board *game.Board) (game.Move, error) {
	return a.learner.BestMove(board)
}

type mctsAgent struct {
	mu   sync.Mutex // the search tree is rebuilt per call
	mcts *searcher.MCTS
}

// NewMCTS plays the most visited root move of a fresh search.
func NewMCTS(mcts *searcher.MCTS) Agent {
	return &mctsAgent{mcts: mcts}
}

func (a *mctsAgent) FindMove(board *game.Board) (game.Move, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.mcts.FindMove(board)
}
