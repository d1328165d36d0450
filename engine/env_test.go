package engine

import (
	"testing"

	"connect/agent"
	"connect/game"
	"connect/searcher"

	"github.com/stretchr/testify/require"
)

func TestEnv(t *testing.T) {
	t.Run("raw observation", func(t *testing.T) {
		e := NewEnv(game.TicTacToe)

		obs, done, outcome, err := e.Apply(4)

		require.NoError(t, err)
		require.False(t, done)
		require.Equal(t, Ongoing, outcome)
		require.Equal(t, int8(1), obs[1][1], "O should be +1")
		require.Equal(t, game.X, e.Turn())
	})

	t.Run("flipped observation", func(t *testing.T) {
		e := NewEnv(game.TicTacToe, WithFlippedObservation())

		obs, _, _, err := e.Apply(4)
		require.NoError(t, err)
		require.Equal(t, int8(-1), obs[1][1], "X to move should see O as -1")

		obs, _, _, err = e.Apply(0)
		require.NoError(t, err)
		require.Equal(t, int8(1), obs[1][1], "O to move should see its own mark as +1")
		require.Equal(t, int8(-1), obs[0][0], "O to move should see X as -1")
	})

	t.Run("winning", func(t *testing.T) {
		e := NewEnv(game.ConnectFour)
		for _, move := range []game.Move{0, 1, 0, 1, 0, 1} {
			_, done, _, err := e.Apply(move)
			require.NoError(t, err)
			require.False(t, done)
		}

		_, done, outcome, err := e.Apply(0)

		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, Win, outcome)
		require.Equal(t, 1.0, outcome.Reward())
	})

	t.Run("illegal move ends the episode", func(t *testing.T) {
		e := NewEnv(game.TicTacToe)
		_, _, _, err := e.Apply(4)
		require.NoError(t, err)

		_, done, outcome, err := e.Apply(4)

		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, Illegal, outcome)
		require.Equal(t, -5.0, outcome.Reward())

		_, _, _, err = e.Apply(0)
		require.ErrorIs(t, err, ErrEpisodeOver, "Finished episode should need a reset")

		obs := e.Reset()
		require.False(t, e.Done())
		require.Equal(t, Observation{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, obs)
		require.Len(t, e.LegalMoves(), 9)
	})

	t.Run("tie", func(t *testing.T) {
		e := NewEnv(game.TicTacToe)
		var outcome Outcome
		for _, move := range []game.Move{0, 1, 2, 4, 3, 5, 7, 6, 8} {
			var err error
			_, _, outcome, err = e.Apply(move)
			require.NoError(t, err)
		}

		require.Equal(t, Tie, outcome)
		require.Equal(t, 0.0, outcome.Reward())
	})

	t.Run("opponent answers every move", func(t *testing.T) {
		e := NewEnv(game.TicTacToe, WithOpponent(agent.NewOptimal(searcher.NewSolver())))

		_, done, outcome, err := e.Apply(0)

		require.NoError(t, err)
		require.False(t, done)
		require.Equal(t, Ongoing, outcome)
		require.Equal(t, game.O, e.Turn(), "Opponent should have replied as X")
		require.Len(t, e.LegalMoves(), 7)
	})

	t.Run("opponent wins", func(t *testing.T) {
		e := NewEnv(game.TicTacToe, WithOpponent(agent.NewOptimal(searcher.NewSolver())))
		outcome := Ongoing
		done := false
		for !done {
			var err error
			_, done, outcome, err = e.Apply(e.LegalMoves()[0])
			require.NoError(t, err)
		}

		require.Equal(t, Loss, outcome, "First-cell play should lose to the solver")
		require.Equal(t, -1.0, outcome.Reward())
	})

	t.Run("render", func(t *testing.T) {
		e := NewEnv(game.TicTacToe)
		require.Equal(t, "0 1 2\n. . .\n. . .\n. . .", e.Render())
		require.Equal(t, "illegal", Illegal.String())
	})
}
