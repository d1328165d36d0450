package game

// Color is the mark held by a cell and the identity of the side to move.
type Color int8

const (
	None Color = 0
	O    Color = 1 // moves first
	X    Color = -1
)

// Opposite returns the other player. None stays None.
func (c Color) Opposite() Color {
	switch c {
	case O:
		return X
	case X:
		return O
	default:
		return None
	}
}

// Token is the single-character form used by the text board format.
func (c Color) Token() byte {
	switch c {
	case O:
		return 'O'
	case X:
		return 'X'
	default:
		return '.'
	}
}

func (c Color) String() string {
	switch c {
	case O:
		return "O"
	case X:
		return "X"
	default:
		return "NONE"
	}
}

func colorFromToken(token string) (Color, bool) {
	switch token {
	case "O":
		return O, true
	case "X":
		return X, true
	case ".":
		return None, true
	default:
		return None, false
	}
}
