package searcher

import (
	"sync"
	"time"

	"connect/game"

	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS is a tree-parallel Monte Carlo tree search with virtual loss. It plays
// either board size but is meant for boards too large for the Solver.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	root       *node
	metrics    Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewCollector()
	}
}

// MaxCutoff lets rollouts run to the end of any supported board.
const MaxCutoff = 1 << 16

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: max(goroutines, 1),
		cutoff:     MaxCutoff,
		metrics:    NewNoCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate searches from board and returns the visit count of each root move.
func (m *MCTS) Simulate(board *game.Board) (map[game.Move]float64, SearchMetric) {
	m.root = newNode(nil, board.Turn().Opposite(), board)

	m.metrics.Start()
	if m.episodes > 0 {
		m.iterate(board)
	} else {
		m.countdown(board)
	}
	metric := m.metrics.Complete()

	return m.root.Policy(), metric
}

// FindMove returns the most visited root move. Ties go to the lowest move.
func (m *MCTS) FindMove(board *game.Board) (game.Move, error) {
	legal := board.LegalMoves()
	if len(legal) == 0 {
		return 0, game.ErrNoLegalMoves
	}

	policy, _ := m.Simulate(board)

	best := legal[0]
	for _, move := range legal[1:] {
		if policy[move] > policy[best] {
			best = move
		}
	}
	return best, nil
}

func (m *MCTS) iterate(board *game.Board) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range task {
				m.simulate(board.Copy())
				m.metrics.AddEpisode()
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(board *game.Board) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
					m.simulate(board.Copy())
					m.metrics.AddEpisode()
				}
			}
		}()
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

func (m *MCTS) simulate(board *game.Board) {
	leaf := selectThenExpand(m.root, board)
	winner := rollout(board, m.cutoff, m.metrics)
	backup(leaf, winner)
}

func selectThenExpand(root *node, board *game.Board) *node {
	parent := root
	child, selected := parent.SelectOrExpand(board)
	for selected && (child != parent) {
		parent = child
		child, selected = parent.SelectOrExpand(board)
	}
	return child
}

// rollout plays random moves until the game ends or the cutoff is reached.
// A cut-off rollout counts as a draw.
func rollout(board *game.Board, cutoff int, metrics Collector) game.Color {
	for depth := 0; depth < cutoff; depth++ {
		if winner := board.Winner(); winner != game.None {
			metrics.AddFullPlayout()
			return winner
		}
		moves := board.LegalMoves()
		if len(moves) == 0 {
			metrics.AddFullPlayout()
			return game.None
		}
		play(board, moves[rand.Intn(len(moves))]) // Random rollout policy
	}
	return board.Winner()
}

func backup(leaf *node, winner game.Color) {
	n := leaf
	for n != nil {
		parent := n.Backup(winner)
		n = parent
	}
}
