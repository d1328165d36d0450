package game

import "fmt"

// Move is a column on gravity boards and a row-major cell index otherwise.
type Move int

// StateKey identifies a board position for memoization. Two boards with the
// same cells produce the same key.
type StateKey string

// Intner is the slice of a random source needed to pick moves.
type Intner interface {
	Intn(n int) int
}

// Board is the state of one game. Lookahead callers work on Copy() and
// never mutate the live board.
type Board struct {
	rules Rules
	cells []Color // row-major, row 0 is the top
	turn  Color
	moves int
}

// NewBoard returns an empty board with O to move.
func NewBoard(rules Rules) *Board {
	if rules.Rows <= 0 || rules.Columns <= 0 || rules.WinLength <= 0 {
		panic(fmt.Sprintf("invalid board rules %+v", rules))
	}
	return &Board{
		rules: rules,
		cells: make([]Color, rules.Cells()),
		turn:  O,
	}
}

func (b *Board) Rules() Rules   { return b.rules }
func (b *Board) Rows() int      { return b.rules.Rows }
func (b *Board) Columns() int   { return b.rules.Columns }
func (b *Board) Turn() Color    { return b.turn }
func (b *Board) MoveCount() int { return b.moves }

// At returns the mark at (row, col); row 0 is the top row.
func (b *Board) At(row, col int) Color {
	return b.cells[row*b.rules.Columns+col]
}

func (b *Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.rules.Rows && col >= 0 && col < b.rules.Columns
}

// LegalMoves lists the playable moves in ascending order.
func (b *Board) LegalMoves() []Move {
	var legal []Move
	if b.rules.Gravity {
		for col := 0; col < b.rules.Columns; col++ {
			if b.At(0, col) == None {
				legal = append(legal, Move(col))
			}
		}
		return legal
	}
	for i, cell := range b.cells {
		if cell == None {
			legal = append(legal, Move(i))
		}
	}
	return legal
}

// IsLegal reports whether move would be accepted by Play for the side to move.
func (b *Board) IsLegal(move Move) bool {
	if move < 0 || int(move) >= b.rules.MoveSpace() {
		return false
	}
	if b.rules.Gravity {
		return b.At(0, int(move)) == None
	}
	return b.cells[move] == None
}

// Play applies move for player and hands the turn to the opponent.
func (b *Board) Play(player Color, move Move) error {
	if player != b.turn {
		return fmt.Errorf("%w: expected %s, but move is for %s", ErrTurnViolation, b.turn, player)
	}
	if !b.IsLegal(move) {
		return fmt.Errorf("%w: %d", ErrIllegalMove, move)
	}

	b.cells[b.target(move)] = player
	b.moves++
	b.turn = player.Opposite()
	return nil
}

// target resolves a legal move to the cell index it fills.
func (b *Board) target(move Move) int {
	if !b.rules.Gravity {
		return int(move)
	}
	col := int(move)
	for row := b.rules.Rows - 1; row >= 0; row-- {
		if b.At(row, col) == None {
			return row*b.rules.Columns + col
		}
	}
	panic(fmt.Sprintf("column %d is full", col))
}

// IsTie reports a full board. Check IsWinning first: a full board whose last
// move completed a line is a win.
func (b *Board) IsTie() bool {
	return b.moves == b.rules.Cells()
}

// IsWinning reports whether player owns a run of Rules.WinLength cells.
func (b *Board) IsWinning(player Color) bool {
	return HasStreak(b, player, b.rules.WinLength)
}

// Winner returns the player holding a winning run, or None.
func (b *Board) Winner() Color {
	for _, c := range []Color{O, X} {
		if b.IsWinning(c) {
			return c
		}
	}
	return None
}

// IsOver reports a won or full board.
func (b *Board) IsOver() bool {
	return b.Winner() != None || b.IsTie()
}

// Copy returns an independent duplicate.
func (b *Board) Copy() *Board {
	cells := make([]Color, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		rules: b.rules,
		cells: cells,
		turn:  b.turn,
		moves: b.moves,
	}
}

// CopyWithTurn returns a duplicate in which player is the side to move.
func (b *Board) CopyWithTurn(player Color) *Board {
	c := b.Copy()
	c.turn = player
	return c
}

// RandomMove picks a uniformly random legal move.
func (b *Board) RandomMove(rng Intner) (Move, error) {
	legal := b.LegalMoves()
	if len(legal) == 0 {
		return 0, ErrNoLegalMoves
	}
	return legal[rng.Intn(len(legal))], nil
}

// Grid returns the raw signed grid: O is +1, X is -1, empty is 0.
func (b *Board) Grid() [][]int8 {
	grid := make([][]int8, b.rules.Rows)
	for row := range grid {
		grid[row] = make([]int8, b.rules.Columns)
		for col := range grid[row] {
			grid[row][col] = int8(b.At(row, col))
		}
	}
	return grid
}

// Key derives the memoization key from the cell contents.
func (b *Board) Key() StateKey {
	key := make([]byte, len(b.cells))
	for i, cell := range b.cells {
		key[i] = cell.Token()
	}
	return StateKey(key)
}

// TurnKey is Key extended with the side to move.
func (b *Board) TurnKey() StateKey {
	return b.Key() + StateKey(b.turn.Token())
}

// Equal compares rules, cells, turn and move count.
func (b *Board) Equal(other *Board) bool {
	if other == nil {
		return false
	}
	return b.rules == other.rules &&
		b.turn == other.turn &&
		b.moves == other.moves &&
		b.Key() == other.Key()
}

// Valid reports whether the cells could arise from alternating play with O
// first: O holds as many marks as X or one more, and on gravity boards no
// mark sits above an empty cell.
func (b *Board) Valid() error {
	counts := map[Color]int{}
	for _, cell := range b.cells {
		counts[cell]++
	}
	if diff := counts[O] - counts[X]; diff != 0 && diff != 1 {
		return fmt.Errorf("%w: O has %d marks and X has %d", ErrMalformedBoard, counts[O], counts[X])
	}
	if !b.rules.Gravity {
		return nil
	}
	for col := 0; col < b.rules.Columns; col++ {
		for row := 0; row+1 < b.rules.Rows; row++ {
			if b.At(row, col) != None && b.At(row+1, col) == None {
				return fmt.Errorf("%w: mark at row %d column %d is floating", ErrMalformedBoard, row, col)
			}
		}
	}
	return nil
}
