package learner

import (
	"fmt"
	"sync"

	"connect/game"
	"connect/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Mover picks moves for the side an agent does not control during training.
type Mover interface {
	FindMove(board *game.Board) (game.Move, error)
}

type Option func(a *Agent)

func WithEpsilon(epsilon float64) Option {
	return func(a *Agent) {
		a.epsilon = epsilon
	}
}

func WithLearningRate(alpha float64) Option {
	return func(a *Agent) {
		a.alpha = alpha
	}
}

func WithDiscount(gamma float64) Option {
	return func(a *Agent) {
		a.gamma = gamma
	}
}

func WithSeed(seed uint64) Option {
	return func(a *Agent) {
		a.rng = newLockedSource(seed)
	}
}

func WithRules(rules game.Rules) Option {
	return func(a *Agent) {
		a.rules = rules
	}
}

// WithOpponent trains against mover instead of self-play. The opponent takes
// O and X on alternate episodes.
func WithOpponent(mover Mover) Option {
	return func(a *Agent) {
		a.opponent = mover
	}
}

// Agent is a tabular Q-learning player. Both colors share one table: values
// are from the perspective of the player to move in the stored state.
type Agent struct {
	mu       sync.RWMutex
	table    *Table
	epsilon  float64
	alpha    float64
	gamma    float64
	rules    game.Rules
	rng      *lockedSource
	opponent Mover
	episodes int
}

func NewAgent(options ...Option) *Agent {
	a := &Agent{
		table:   NewTable(),
		epsilon: meta.Epsilon,
		alpha:   meta.LearningRate,
		gamma:   meta.Discount,
		rules:   game.TicTacToe,
	}
	for _, option := range options {
		option(a)
	}
	if a.rng == nil {
		a.rng = newLockedSource(uint64(rand.Int63()))
	}
	if a.epsilon < 0 || a.epsilon > 1 {
		panic(fmt.Sprintf("epsilon %v outside [0, 1]", a.epsilon))
	}
	if a.alpha <= 0 || a.alpha > 1 {
		panic(fmt.Sprintf("learning rate %v outside (0, 1]", a.alpha))
	}
	if a.gamma < 0 || a.gamma > 1 {
		panic(fmt.Sprintf("discount %v outside [0, 1]", a.gamma))
	}
	return a
}

// SelectMove is the epsilon-greedy policy used while training.
func (a *Agent) SelectMove(board *game.Board) (game.Move, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.selectMove(board)
}

func (a *Agent) selectMove(board *game.Board) (game.Move, error) {
	legal := board.LegalMoves()
	if len(legal) == 0 {
		return 0, game.ErrNoLegalMoves
	}
	if a.rng.Float64() < a.epsilon {
		return legal[a.rng.Intn(len(legal))], nil
	}
	return a.table.Argmax(board.TurnKey(), legal), nil
}

// BestMove is the greedy policy. States never seen in training get a random
// legal move.
func (a *Agent) BestMove(board *game.Board) (game.Move, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	legal := board.LegalMoves()
	if len(legal) == 0 {
		return 0, game.ErrNoLegalMoves
	}
	state := board.TurnKey()
	if !a.table.Visited(state, legal) {
		return legal[a.rng.Intn(len(legal))], nil
	}
	return a.table.Argmax(state, legal), nil
}

// Value returns the current estimate for move on board.
func (a *Agent) Value(board *game.Board, move game.Move) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.table.Get(board.TurnKey(), move)
}

// Size is the number of learned (state, move) entries.
func (a *Agent) Size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.table.Len()
}

// Episodes is the number of completed training games.
func (a *Agent) Episodes() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.episodes
}

// TrainEpisode plays one game from the empty board, learning from every
// applied move, and returns the winner.
func (a *Agent) TrainEpisode() (game.Color, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.episodes++
	opponentColor := game.None
	if a.opponent != nil {
		opponentColor = game.X
		if a.episodes%2 == 0 {
			opponentColor = game.O
		}
	}

	board := game.NewBoard(a.rules)
	for !board.IsOver() {
		mover := board.Turn()

		var move game.Move
		var err error
		if mover == opponentColor {
			move, err = a.opponent.FindMove(board.Copy())
		} else {
			move, err = a.selectMove(board)
		}
		if err != nil {
			return game.None, fmt.Errorf("episode %d: %w", a.episodes, err)
		}

		state := board.TurnKey()
		if err := board.Play(mover, move); err != nil {
			return game.None, fmt.Errorf("episode %d: %w", a.episodes, err)
		}
		a.update(state, move, board, mover)
	}
	return board.Winner(), nil
}

// update applies Q += alpha * (target - Q) for the transition that produced next.
func (a *Agent) update(state game.StateKey, move game.Move, next *game.Board, mover game.Color) {
	var target float64
	switch {
	case next.IsWinning(mover):
		target = 1
	case next.IsTie():
		target = 0
	default:
		target = a.gamma * -a.table.Max(next.TurnKey(), next.LegalMoves())
	}

	q := a.table.Get(state, move)
	a.table.Set(state, move, q+a.alpha*(target-q))
}

// Train runs episodes training games.
func (a *Agent) Train(episodes int) error {
	wins := map[game.Color]int{}
	for i := 1; i <= episodes; i++ {
		winner, err := a.TrainEpisode()
		if err != nil {
			return err
		}
		wins[winner]++

		if i%meta.LogEvery == 0 {
			log.Debug().Msgf("episode %d of %d: %d entries, O %d, X %d, ties %d",
				i, episodes, a.Size(), wins[game.O], wins[game.X], wins[game.None])
		}
	}
	log.Info().Msgf("trained %d episodes, table holds %d entries", episodes, a.Size())
	return nil
}

// lockedSource serializes draws so greedy queries can run concurrently.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedSource(seed uint64) *lockedSource {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Intn(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Float64()
}
