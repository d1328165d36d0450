package engine

import (
	"testing"

	"connect/agent"
	"connect/game"
	"connect/searcher"

	"github.com/stretchr/testify/require"
)

type fixedAgent struct {
	move game.Move
}

func (a fixedAgent) FindMove(board *game.Board) (game.Move, error) {
	return a.move, nil
}

func TestLocalEngine(t *testing.T) {
	t.Run("running to completion", func(t *testing.T) {
		e := NewLocalEngine(game.ConnectFour, []agent.Agent{agent.NewRandom(1), agent.NewRandom(2)})

		result, err := e.Run()

		require.NoError(t, err)
		require.True(t, result.Board.IsOver(), "Game should be finished")
		require.Equal(t, result.Board.Winner(), result.Game.Winner)
		require.Equal(t, result.Board.MoveCount(), result.Game.TotalMoves)
		require.Len(t, result.Moves, result.Game.TotalMoves, "Every move should be recorded")
		require.Equal(t, game.O, result.Moves[0].Player, "O should move first")
		require.False(t, result.Game.Forfeit)
	})

	t.Run("optimal play is a draw", func(t *testing.T) {
		solver := searcher.NewSolver()
		e := NewLocalEngine(game.TicTacToe, []agent.Agent{agent.NewOptimal(solver), agent.NewOptimal(solver)})

		result, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, game.None, result.Game.Winner, "Perfect play should tie")
		require.Equal(t, 9, result.Game.TotalMoves)
		for _, mm := range result.Moves {
			require.False(t, mm.FailedBlock, "Optimal play should block every single threat")
		}
	})

	t.Run("illegal move forfeits", func(t *testing.T) {
		e := NewLocalEngine(game.TicTacToe, []agent.Agent{fixedAgent{move: 4}, fixedAgent{move: 4}})

		result, err := e.Run()

		require.NoError(t, err)
		require.True(t, result.Game.Forfeit)
		require.Equal(t, game.O, result.Game.Winner, "X repeats the occupied cell and forfeits")
		require.Len(t, result.Moves, 2)
		require.True(t, result.Moves[1].Illegal)
	})

	t.Run("agent errors abort", func(t *testing.T) {
		solver := searcher.NewSolver()
		e := NewLocalEngine(game.Rules{Rows: 3, Columns: 4, WinLength: 3}, []agent.Agent{agent.NewOptimal(solver), agent.NewRandom(1)})

		_, err := e.Run()

		require.ErrorIs(t, err, searcher.ErrNotPrecomputed, "Solver should not know other board shapes")
	})

	t.Run("wrong number of agents", func(t *testing.T) {
		require.Panics(t, func() {
			NewLocalEngine(game.TicTacToe, []agent.Agent{agent.NewRandom(1)})
		})
	})
}
