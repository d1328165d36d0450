package engine

import (
	"errors"
	"fmt"
	"time"

	"connect/agent"
	"connect/experiments/metrics"
	"connect/game"

	"github.com/rs/zerolog/log"
)

// Result describes a finished game. Agents[i] played Colors[i].
type Result struct {
	Board  *game.Board
	Colors [2]game.Color
	Game   metrics.GameMetric
	Moves  []metrics.MoveMetric
}

type Engine struct {
	rules  game.Rules
	agents [2]agent.Agent
}

// NewLocalEngine pairs two agents; the first one plays O and moves first.
func NewLocalEngine(rules game.Rules, agents []agent.Agent) *Engine {
	if len(agents) != 2 {
		panic(fmt.Sprintf("need exactly two agents, got %d", len(agents)))
	}
	return &Engine{
		rules:  rules,
		agents: [2]agent.Agent{agents[0], agents[1]},
	}
}

// Run plays a game to completion. An agent that answers with an illegal move
// forfeits; any other agent error aborts the game.
func (e *Engine) Run() (Result, error) {
	board := game.NewBoard(e.rules)
	result := Result{
		Board:  board,
		Colors: [2]game.Color{game.O, game.X},
		Game: metrics.GameMetric{
			StartingPlayer: board.Turn(),
			StartTime:      time.Now(),
		},
	}

	log.Debug().Msgf("%s is starting", board.Turn())

	for !board.IsOver() {
		mover := board.Turn()
		index := 0
		if mover != result.Colors[0] {
			index = 1
		}

		start := time.Now()
		move, err := e.agents[index].FindMove(board.Copy())
		mm := metrics.MoveMetric{
			Step:     board.MoveCount() + 1,
			Player:   mover,
			Move:     move,
			Duration: time.Since(start),
		}

		if err == nil && board.IsLegal(move) {
			mm.MissedWin, mm.FailedBlock = metrics.Diagnose(board, move)
			err = board.Play(mover, move)
		} else if err == nil {
			err = fmt.Errorf("%w: %d", game.ErrIllegalMove, move)
		}

		if errors.Is(err, game.ErrIllegalMove) {
			mm.Illegal = true
			result.Moves = append(result.Moves, mm)
			result.Game.Winner = mover.Opposite()
			result.Game.Forfeit = true
			log.Debug().Msgf("%s forfeits with illegal move %d", mover, move)
			break
		}
		if err != nil {
			return result, fmt.Errorf("step %d: %w", mm.Step, err)
		}

		result.Moves = append(result.Moves, mm)
	}

	if !result.Game.Forfeit {
		result.Game.Winner = board.Winner()
	}
	result.Game.EndTime = time.Now()
	result.Game.Duration = result.Game.EndTime.Sub(result.Game.StartTime)
	result.Game.TotalMoves = board.MoveCount()

	if result.Game.Winner != game.None {
		log.Debug().Msgf("game ended after %d moves with winner %s", board.MoveCount(), result.Game.Winner)
	} else {
		log.Debug().Msgf("game ended in a tie after %d moves", board.MoveCount())
	}
	return result, nil
}
