package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func swapColors(text string) string {
	return strings.NewReplacer("O", "X", "X", "O").Replace(text)
}

func TestHasStreakConnectFour(t *testing.T) {
	winning := map[string][]string{
		"horizontal": {`
. . . . . . .
. . . . . . .
. . . . . . .
. . . . . . .
. . . O O O O
`, `
. . . . . . .
. . . . . . .
. . . . . . .
. . . . . . .
O O O O . . .
`, `
. . . O O O O
. . . . . . .
. . . . . . .
. . . . . . .
. . . . . . .
`, `
O O O O . . .
. . . . . . .
. . . . . . .
. . . . . . .
. . . . . . .
`},
		"vertical": {`
. . . . . . .
. . . . . . O
. . . . . . O
. . . . . . O
. . . . . . O
`, `
O . . . . . .
O . . . . . .
O . . . . . .
O . . . . . .
. . . . . . .
`},
		"diagonal \\": {`
. . . . . . .
O . . . . . .
. O . . . . .
. . O . . . .
. . . O . . .
`, `
. . . O . . .
. . . . O . .
. . . . . O .
. . . . . . O
. . . . . . .
`},
		"diagonal /": {`
. . . O . . .
. . O . . . .
. O . . . . .
O . . . . . .
. . . . . . .
`, `
. . . . . . .
. . . . . . O
. . . . . O .
. . . . O . .
. . . O . . .
`},
	}

	for direction, boards := range winning {
		t.Run(direction, func(t *testing.T) {
			for _, text := range boards {
				b := mustParse(t, ConnectFour, text)
				require.True(t, b.IsWinning(O), "O should win:\n%s", text)
				require.False(t, b.IsWinning(X), "X should not win:\n%s", text)

				swapped := mustParse(t, ConnectFour, swapColors(text))
				require.Equal(t, b.IsWinning(O), swapped.IsWinning(X), "Detection should be symmetric under color swap")
				require.Equal(t, b.IsWinning(X), swapped.IsWinning(O), "Detection should be symmetric under color swap")
			}
		})
	}

	t.Run("blank board", func(t *testing.T) {
		b := NewBoard(ConnectFour)
		require.False(t, b.IsWinning(O))
		require.False(t, b.IsWinning(X))
	})

	t.Run("run of three never wins", func(t *testing.T) {
		for start := 0; start+3 <= 7; start++ {
			b := NewBoard(ConnectFour)
			for col := start; col < start+3; col++ {
				b.cells[5*7+col] = O
			}
			require.False(t, b.IsWinning(O), "Three in a row from column %d should not win", start)
		}
	})

	t.Run("run of four at every offset in a seven wide row", func(t *testing.T) {
		for start := 0; start+4 <= 7; start++ {
			b := NewBoard(ConnectFour)
			for col := start; col < start+4; col++ {
				b.cells[2*7+col] = X
			}
			require.True(t, b.IsWinning(X), "Four in a row from column %d should win", start)
		}
	})

	t.Run("broken run does not win", func(t *testing.T) {
		b := mustParse(t, ConnectFour, `
. . . . . . .
. . . . . . .
. . . . . . .
. . . . . . .
. . . . . . .
O O X O O . .
`)
		require.False(t, b.IsWinning(O), "Interrupted run should reset the count")
	})
}

func TestHasStreakTicTacToe(t *testing.T) {
	cases := map[string]struct {
		text   string
		winner Color
	}{
		"horizontal":  {text: ". . .\nO O O\n. . .", winner: O},
		"vertical":    {text: ". . X\n. . X\n. . X", winner: X},
		"diagonal \\": {text: "X . .\n. X .\n. . X", winner: X},
		"diagonal /":  {text: ". . X\n. X .\nX . .", winner: X},
		"none":        {text: "O X O\nX O X\nX O X", winner: None},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			b := mustParse(t, TicTacToe, tc.text)
			require.Equal(t, tc.winner, b.Winner(), "Winner should match")

			swapped := mustParse(t, TicTacToe, swapColors(tc.text))
			require.Equal(t, tc.winner.Opposite(), swapped.Winner(), "Swapped board should have the swapped winner")
		})
	}
}
