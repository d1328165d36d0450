package game

// HasStreak reports whether player owns length consecutive cells along a
// row, a column or either diagonal.
func HasStreak(b *Board, player Color, length int) bool {
	rows, cols := b.rules.Rows, b.rules.Columns

	// Horizontal
	for row := 0; row < rows; row++ {
		count := 0
		for col := 0; col < cols; col++ {
			if count = extend(b, row, col, player, count); count == length {
				return true
			}
		}
	}

	// Vertical
	for col := 0; col < cols; col++ {
		count := 0
		for row := 0; row < rows; row++ {
			if count = extend(b, row, col, player, count); count == length {
				return true
			}
		}
	}

	// Diagonal \ : column = offset + row
	for offset := -(rows - length); offset <= cols-length; offset++ {
		count := 0
		for row := 0; row < rows; row++ {
			if count = extend(b, row, offset+row, player, count); count == length {
				return true
			}
		}
	}

	// Diagonal / : column = offset - row
	for offset := length - 1; offset < cols+rows-length; offset++ {
		count := 0
		for row := 0; row < rows; row++ {
			if count = extend(b, row, offset-row, player, count); count == length {
				return true
			}
		}
	}

	return false
}

// extend returns the running count after visiting (row, col). Out-of-bounds
// and non-matching cells reset it.
func extend(b *Board, row, col int, player Color, count int) int {
	if b.inBounds(row, col) && b.At(row, col) == player {
		return count + 1
	}
	return 0
}
