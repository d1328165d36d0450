package searcher

import (
	"errors"
	"fmt"

	"connect/game"

	"github.com/rs/zerolog/log"
)

// MaxSolverCells bounds the boards the solver accepts: beyond it the full
// game tree no longer fits in memory.
const MaxSolverCells = 12

var ErrNotPrecomputed = errors.New("state was not reached by the solver")

// noMove marks cached positions without legal moves.
const noMove game.Move = -1

type entry struct {
	score int
	move  game.Move
}

// Solver computes exact minimax values. X maximizes and O minimizes; a win
// for X scores +1, a win for O scores -1 and a draw 0.
type Solver struct {
	rules   game.Rules
	cache   map[game.StateKey]entry
	metrics Collector
	metric  SearchMetric
}

type SolverOption func(s *Solver)

func WithRules(rules game.Rules) SolverOption {
	return func(s *Solver) {
		s.rules = rules
	}
}

func WithSolverMetrics() SolverOption {
	return func(s *Solver) {
		s.metrics = NewCollector()
	}
}

// NewSolver searches the whole game tree from the empty board with O to move,
// so every reachable position is cached when it returns.
func NewSolver(options ...SolverOption) *Solver {
	s := &Solver{
		rules:   game.TicTacToe,
		cache:   map[game.StateKey]entry{},
		metrics: NewNoCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.rules.Cells() > MaxSolverCells {
		panic(fmt.Sprintf("board with %d cells is too large for exhaustive search", s.rules.Cells()))
	}

	s.metrics.Start()
	value := s.Solve(game.NewBoard(s.rules), game.O)
	s.metric = s.metrics.Complete()

	log.Debug().Msgf("solver cached %d positions, value of the empty board is %d", len(s.cache), value)
	return s
}

// Solve returns the minimax value of board with player to move.
func (s *Solver) Solve(board *game.Board, player game.Color) int {
	key := board.Key()
	if e, ok := s.cache[key]; ok {
		s.metrics.AddCacheHit()
		return e.score
	}
	s.metrics.AddNode()

	legal := board.LegalMoves()
	if len(legal) == 0 {
		s.cache[key] = entry{score: 0, move: noMove}
		return 0
	}

	bestScore := 2
	if player == game.X {
		bestScore = -2
	}
	bestMove := noMove

	for _, move := range legal {
		next := board.CopyWithTurn(player)
		if err := next.Play(player, move); err != nil {
			panic(err) // legal by construction
		}

		var score int
		if next.IsWinning(player) {
			score = outcome(player)
		} else {
			score = s.Solve(next, player.Opposite())
		}

		if (player == game.X && score > bestScore) || (player != game.X && score < bestScore) {
			bestScore = score
			bestMove = move
		}
	}

	s.cache[key] = entry{score: bestScore, move: bestMove}
	return bestScore
}

func outcome(winner game.Color) int {
	if winner == game.X {
		return 1
	}
	return -1
}

// OptimalMove returns the cached best move for the side to move on board.
func (s *Solver) OptimalMove(board *game.Board) (game.Move, error) {
	e, ok := s.cache[board.Key()]
	if !ok {
		return 0, fmt.Errorf("%w:\n%s", ErrNotPrecomputed, board)
	}
	if e.move == noMove {
		return 0, game.ErrNoLegalMoves
	}
	return e.move, nil
}

// Value returns the cached minimax value of board.
func (s *Solver) Value(board *game.Board) (int, error) {
	e, ok := s.cache[board.Key()]
	if !ok {
		return 0, fmt.Errorf("%w:\n%s", ErrNotPrecomputed, board)
	}
	return e.score, nil
}

// Size is the number of cached positions.
func (s *Solver) Size() int {
	return len(s.cache)
}

// Metric reports the cost of the precomputation.
func (s *Solver) Metric() SearchMetric {
	return s.metric
}
