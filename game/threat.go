package game

import "github.com/samber/lo"

// threatDepth is the stack height of opponent marks that must be blocked.
const threatDepth = 3

// NeedsBlocking reports whether column has room on top and the marks under
// the first empty slot start with threatDepth marks of opponent. Only
// vertical stacks are considered.
func (b *Board) NeedsBlocking(column int, opponent Color) bool {
	if b.At(0, column) != None {
		return false // no room to block
	}

	count := 0
	for row := 0; row < b.rules.Rows; row++ {
		switch b.At(row, column) {
		case None:
			continue
		case opponent:
			count++
			if count == threatDepth {
				return true
			}
		default:
			return false
		}
	}
	return false
}

// BlockingColumns lists the columns that need blocking against opponent.
func (b *Board) BlockingColumns(opponent Color) []Move {
	var threatened []Move
	for col := 0; col < b.rules.Columns; col++ {
		if b.NeedsBlocking(col, opponent) {
			threatened = append(threatened, Move(col))
		}
	}
	return threatened
}

// FailingToBlock reports whether color ignores a live vertical threat of its
// opponent by playing move.
func (b *Board) FailingToBlock(move Move, color Color) bool {
	threatened := b.BlockingColumns(color.Opposite())
	return len(threatened) > 0 && !lo.Contains(threatened, move)
}

// ImmediateWins lists the legal moves that would win at once for player,
// simulated as if player were to move now.
func (b *Board) ImmediateWins(player Color) []Move {
	var wins []Move
	for _, move := range b.LegalMoves() {
		next := b.CopyWithTurn(player)
		if err := next.Play(player, move); err != nil {
			continue
		}
		if next.IsWinning(player) {
			wins = append(wins, move)
		}
	}
	return wins
}

// MissedForcedWin reports whether the side to move had an immediate win
// available and move is not one.
func (b *Board) MissedForcedWin(move Move) bool {
	wins := b.ImmediateWins(b.turn)
	return len(wins) > 0 && !lo.Contains(wins, move)
}

// FailedToBlockForcedLoss reports whether the opponent has exactly one
// immediate win on the current position and move does not take it away.
// Several simultaneous threats cannot all be stopped, so they are not held
// against the mover.
func (b *Board) FailedToBlockForcedLoss(move Move) bool {
	threats := b.ImmediateWins(b.turn.Opposite())
	return len(threats) == 1 && move != threats[0]
}
