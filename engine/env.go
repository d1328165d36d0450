package engine

import (
	"errors"
	"fmt"

	"connect/agent"
	"connect/game"
)

var ErrEpisodeOver = errors.New("episode is over, call Reset")

type Outcome int

const (
	Ongoing Outcome = iota
	Win             // the mover completed a line
	Loss            // the opponent answered with a winning move
	Tie
	Illegal // the move was rejected and ended the episode
)

// Reward maps an outcome to the signal a learner receives for its move.
func (o Outcome) Reward() float64 {
	switch o {
	case Win:
		return 1
	case Loss:
		return -1
	case Illegal:
		return -5
	default:
		return 0
	}
}

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Tie:
		return "tie"
	case Illegal:
		return "illegal"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Observation is the signed grid. O is +1 and X is -1 unless the env flips
// it for the side to move.
type Observation [][]int8

type EnvOption func(e *Env)

// WithFlippedObservation makes the side to move always see its marks as +1.
func WithFlippedObservation() EnvOption {
	return func(e *Env) {
		e.flip = true
	}
}

// WithOpponent makes the env answer every move with a move from opponent.
func WithOpponent(opponent agent.Agent) EnvOption {
	return func(e *Env) {
		e.opponent = opponent
	}
}

// Env is a step-wise adapter around a Board for external training loops.
type Env struct {
	rules    game.Rules
	board    *game.Board
	flip     bool
	opponent agent.Agent
	done     bool
}

func NewEnv(rules game.Rules, options ...EnvOption) *Env {
	e := &Env{rules: rules}
	for _, option := range options {
		option(e)
	}
	e.Reset()
	return e
}

// Reset starts a new episode from the empty board.
func (e *Env) Reset() Observation {
	e.board = game.NewBoard(e.rules)
	e.done = false
	return e.observe()
}

// Apply plays move for the side to move and, with an opponent, the reply.
func (e *Env) Apply(move game.Move) (Observation, bool, Outcome, error) {
	if e.done {
		return e.observe(), true, Ongoing, ErrEpisodeOver
	}

	outcome, err := e.play(move)
	if err != nil || outcome != Ongoing || e.opponent == nil {
		return e.observe(), e.done, outcome, err
	}

	reply, err := e.opponent.FindMove(e.board.Copy())
	if err != nil {
		return e.observe(), e.done, Ongoing, fmt.Errorf("opponent: %w", err)
	}
	outcome, err = e.play(reply)
	switch outcome {
	case Win:
		outcome = Loss
	case Illegal:
		outcome = Win // the opponent forfeits
	}
	return e.observe(), e.done, outcome, err
}

func (e *Env) play(move game.Move) (Outcome, error) {
	mover := e.board.Turn()
	if err := e.board.Play(mover, move); err != nil {
		if errors.Is(err, game.ErrIllegalMove) {
			e.done = true
			return Illegal, nil
		}
		return Ongoing, err
	}

	switch {
	case e.board.IsWinning(mover):
		e.done = true
		return Win, nil
	case e.board.IsTie():
		e.done = true
		return Tie, nil
	}
	return Ongoing, nil
}

func (e *Env) LegalMoves() []game.Move {
	return e.board.LegalMoves()
}

func (e *Env) Turn() game.Color {
	return e.board.Turn()
}

func (e *Env) Done() bool {
	return e.done
}

// Render draws the board with column headers.
func (e *Env) Render() string {
	return e.board.Render(true)
}

func (e *Env) observe() Observation {
	grid := e.board.Grid()
	if e.flip && e.board.Turn() == game.X {
		for _, row := range grid {
			for i := range row {
				row[i] = -row[i]
			}
		}
	}
	return grid
}
