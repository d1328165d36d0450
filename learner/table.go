package learner

import (
	"math"

	"connect/game"

	"github.com/samber/lo"
)

type qKey struct {
	state game.StateKey
	move  game.Move
}

// Table maps (state, move) pairs to value estimates. Missing entries read as 0.
type Table struct {
	values map[qKey]float64
}

func NewTable() *Table {
	return &Table{values: map[qKey]float64{}}
}

func (t *Table) Get(state game.StateKey, move game.Move) float64 {
	return t.values[qKey{state, move}]
}

func (t *Table) Set(state game.StateKey, move game.Move, value float64) {
	t.values[qKey{state, move}] = value
}

// Len is the number of stored entries.
func (t *Table) Len() int {
	return len(t.values)
}

// Visited reports whether any of moves has an entry for state.
func (t *Table) Visited(state game.StateKey, moves []game.Move) bool {
	return lo.SomeBy(moves, func(move game.Move) bool {
		_, ok := t.values[qKey{state, move}]
		return ok
	})
}

// Argmax returns the move with the highest value. The first move wins ties.
func (t *Table) Argmax(state game.StateKey, moves []game.Move) game.Move {
	return lo.MaxBy(moves, func(a, b game.Move) bool {
		return t.Get(state, a) > t.Get(state, b)
	})
}

// Max returns the highest value over moves, or 0 when there are none.
func (t *Table) Max(state game.StateKey, moves []game.Move) float64 {
	if len(moves) == 0 {
		return 0
	}
	best := math.Inf(-1)
	for _, move := range moves {
		best = math.Max(best, t.Get(state, move))
	}
	return best
}
