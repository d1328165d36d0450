package metrics

import (
	"sync"
	"time"

	"github.com/samber/lo"

	"connect/game"
)

type MoveMetric struct {
	Step        int
	Player      game.Color
	Move        game.Move
	Duration    time.Duration
	Illegal     bool
	MissedWin   bool
	FailedBlock bool
}

type GameMetric struct {
	StartingPlayer game.Color
	Winner         game.Color
	Forfeit        bool // the loser played an illegal move
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Diagnose flags a move about to be played on board. Small boards use the
// exact forced-loss rule; gravity boards use the vertical stack heuristic.
func Diagnose(board *game.Board, move game.Move) (missedWin, failedBlock bool) {
	if !board.IsLegal(move) {
		return false, false
	}
	missedWin = board.MissedForcedWin(move)
	if lo.Contains(board.ImmediateWins(board.Turn()), move) {
		return missedWin, false
	}
	if board.Rules().Gravity {
		failedBlock = board.FailingToBlock(move, board.Turn())
	} else {
		failedBlock = board.FailedToBlockForcedLoss(move)
	}
	return missedWin, failedBlock
}

// Tally is a snapshot of the counters of one player slot.
type Tally struct {
	Games       int
	Wins        int
	Losses      int
	Ties        int
	Moves       int
	Illegal     int
	MissedWins  int
	FailedBlock int
}

// FlaggedRate is the share of moves that were illegal, missed a win or
// failed to block.
func (t Tally) FlaggedRate() float64 {
	if t.Moves == 0 {
		return 0
	}
	return float64(t.Illegal+t.MissedWins+t.FailedBlock) / float64(t.Moves)
}

func (t Tally) WinRate() float64 {
	if t.Games == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Games)
}

// Collector aggregates games for two player slots, 0 and 1. It is safe for
// concurrent use.
type Collector struct {
	mu      sync.Mutex
	tallies [2]Tally
	lengths []float64
}

func NewCollector() *Collector {
	return &Collector{}
}

// Add records one finished game. colors maps each slot to the color it played.
func (c *Collector) Add(colors [2]game.Color, gm GameMetric, moves []MoveMetric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lengths = append(c.lengths, float64(gm.TotalMoves))
	for slot, color := range colors {
		t := &c.tallies[slot]
		t.Games++
		switch gm.Winner {
		case game.None:
			t.Ties++
		case color:
			t.Wins++
		default:
			t.Losses++
		}
		for _, mm := range moves {
			if mm.Player != color {
				continue
			}
			t.Moves++
			if mm.Illegal {
				t.Illegal++
			}
			if mm.MissedWin {
				t.MissedWins++
			}
			if mm.FailedBlock {
				t.FailedBlock++
			}
		}
	}
}

// Tally returns the counters of slot.
func (c *Collector) Tally(slot int) Tally {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tallies[slot]
}

// Lengths returns the number of moves of every recorded game.
func (c *Collector) Lengths() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	lengths := make([]float64, len(c.lengths))
	copy(lengths, c.lengths)
	return lengths
}
