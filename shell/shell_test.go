package shell

import (
	"bytes"
	"testing"

	"connect/agent"
	"connect/game"
	"connect/searcher"

	"github.com/stretchr/testify/require"
)

func TestSessionInput(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(game.ConnectFour, game.O, nil, &out)
	require.NoError(t, s.Start())

	cases := []struct {
		line    string
		message string
	}{
		{"abc", "is not a move"},
		{"7", "between 0 and 6"},
		{"-1", "between 0 and 6"},
	}
	for _, tc := range cases {
		out.Reset()
		done, err := s.Handle(tc.line)

		require.NoError(t, err)
		require.False(t, done)
		require.Contains(t, out.String(), tc.message, "Input %q should be rejected", tc.line)
		require.Equal(t, 0, s.Board().MoveCount(), "Rejected input should not change the board")
	}

	t.Run("full column", func(t *testing.T) {
		for i := 0; i < 6; i++ {
			_, err := s.Handle("3")
			require.NoError(t, err)
		}
		out.Reset()

		_, err := s.Handle("3")

		require.NoError(t, err)
		require.Contains(t, out.String(), "not legal")
		require.Equal(t, 6, s.Board().MoveCount())
	})

	t.Run("exit", func(t *testing.T) {
		done, err := s.Handle("exit")
		require.NoError(t, err)
		require.True(t, done)
	})
}

func TestSessionAgainstOpponent(t *testing.T) {
	t.Run("opponent answers each move", func(t *testing.T) {
		var out bytes.Buffer
		s := NewSession(game.ConnectFour, game.O, agent.NewMCTS(searcher.NewMCTS(1, searcher.WithEpisodes(1))), &out)
		require.NoError(t, s.Start())
		require.Equal(t, 0, s.Board().MoveCount(), "Human plays O and moves first")

		_, err := s.Handle("3")
		require.NoError(t, err)
		require.Equal(t, 2, s.Board().MoveCount(), "Opponent should answer immediately")
	})

	t.Run("opponent opens as O", func(t *testing.T) {
		var out bytes.Buffer
		s := NewSession(game.TicTacToe, game.X, agent.NewOptimal(searcher.NewSolver()), &out)

		require.NoError(t, s.Start())

		require.Equal(t, 1, s.Board().MoveCount(), "Opponent should open")
		require.Equal(t, game.X, s.Board().Turn())
	})

	t.Run("game over", func(t *testing.T) {
		var out bytes.Buffer
		s := NewSession(game.TicTacToe, game.O, nil, &out)
		require.NoError(t, s.Start())
		for _, line := range []string{"0", "3", "1", "4", "2"} {
			_, err := s.Handle(line)
			require.NoError(t, err)
		}
		require.Contains(t, out.String(), "*** O wins! ***")

		out.Reset()
		_, err := s.Handle("5")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Game is over")

		_, err = s.Handle("new")
		require.NoError(t, err)
		require.Equal(t, 0, s.Board().MoveCount(), "New should reset the board")
	})
}
