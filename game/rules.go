package game

import "fmt"

// Rules fixes the grid shape, the run length needed to win and how a move
// places its mark.
type Rules struct {
	Rows      int
	Columns   int
	WinLength int
	Gravity   bool // moves name a column and the mark settles into the lowest empty row
}

var (
	ConnectFour = Rules{Rows: 6, Columns: 7, WinLength: 4, Gravity: true}
	TicTacToe   = Rules{Rows: 3, Columns: 3, WinLength: 3, Gravity: false}
)

// Cells is the number of cells on the grid.
func (r Rules) Cells() int {
	return r.Rows * r.Columns
}

// MoveSpace is the number of distinct move identifiers.
func (r Rules) MoveSpace() int {
	if r.Gravity {
		return r.Columns
	}
	return r.Cells()
}

var named = map[string]Rules{
	"c4":  ConnectFour,
	"ttt": TicTacToe,
}

// RulesNamed resolves the short game names used on the command line and the
// wire: "c4" and "ttt".
func RulesNamed(name string) (Rules, error) {
	rules, ok := named[name]
	if !ok {
		return Rules{}, fmt.Errorf("unknown game %q", name)
	}
	return rules, nil
}

// Name returns the short name of a preset, or "" for custom rules.
func (r Rules) Name() string {
	for name, rules := range named {
		if rules == r {
			return name
		}
	}
	return ""
}
