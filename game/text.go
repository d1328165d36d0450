package game

import (
	"fmt"
	"strconv"
	"strings"
)

// String writes the board top row first, cells separated by single spaces.
func (b *Board) String() string {
	return b.Render(false)
}

// Render is String with an optional header line of column indices.
func (b *Board) Render(headers bool) string {
	lines := make([]string, 0, b.rules.Rows+1)
	if headers {
		header := make([]string, b.rules.Columns)
		for col := range header {
			header[col] = strconv.Itoa(col)
		}
		lines = append(lines, strings.Join(header, " "))
	}

	for row := 0; row < b.rules.Rows; row++ {
		var sb strings.Builder
		for col := 0; col < b.rules.Columns; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(b.At(row, col).Token())
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// Parse reads a board written by String. Blank lines and surrounding
// whitespace are ignored and the grid shape is taken from the text; the
// receiver supplies the run length and placement rule. O is to move unless
// O already has more marks than X.
func (r Rules) Parse(text string) (*Board, error) {
	var rows [][]Color
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		row := make([]Color, len(tokens))
		for i, token := range tokens {
			c, ok := colorFromToken(token)
			if !ok {
				return nil, fmt.Errorf("%w: unknown token %q", ErrMalformedBoard, token)
			}
			row[i] = c
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d",
				ErrMalformedBoard, len(rows), len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty board", ErrMalformedBoard)
	}

	r.Rows, r.Columns = len(rows), len(rows[0])
	b := NewBoard(r)
	counts := map[Color]int{}
	for row, cells := range rows {
		for col, c := range cells {
			b.cells[row*r.Columns+col] = c
			counts[c]++
		}
	}
	b.moves = counts[O] + counts[X]
	if counts[O] > counts[X] {
		b.turn = X
	}
	return b, nil
}
