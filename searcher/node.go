package searcher

import (
	"math"
	"sync"

	"connect/game"
)

type node struct {
	sync.RWMutex
	parent     *node
	mover      game.Color // player whose move led here; rewards are from its perspective
	unexplored []game.Move
	explored   []game.Move
	children   []*node
	rewards    float64
	visits     float64
}

func newNode(parent *node, mover game.Color, board *game.Board) *node {
	var moves []game.Move
	if !board.IsOver() {
		moves = board.LegalMoves()
	}
	return &node{
		parent:     parent,
		mover:      mover,
		unexplored: moves,
	}
}

// SelectOrExpand descends one level and plays the chosen move on board.
// It returns the node itself when the position is terminal.
func (n *node) SelectOrExpand(board *game.Board) (child *node, selected bool) {
	n.Lock()
	defer n.Unlock()

	if len(n.unexplored) == 0 && len(n.children) == 0 { // Terminal node
		return n, false
	}

	if len(n.unexplored) > 0 { // Expandable node
		child = n.expands(board)
		child.applyLoss()
		return child, false
	}

	// Fully expanded node
	ith := n.selects()
	child = n.children[ith]
	play(board, n.explored[ith])
	child.applyLoss()
	return child, true
}

func (n *node) expands(board *game.Board) *node {
	move := n.unexplored[0]
	n.unexplored = n.unexplored[1:]

	mover := board.Turn()
	play(board, move)
	child := newNode(n, mover, board)
	n.explored = append(n.explored, move)
	n.children = append(n.children, child)
	return child
}

func (n *node) selects() int {
	policy := newUCT(CSquared, math.Max(n.visits, 1)) // root may be fully expanded before its first backup

	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range n.children {
		rewards, visits := child.stats()
		if score := policy.score(rewards, visits); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (n *node) applyLoss() {
	n.Lock()
	defer n.Unlock()

	n.rewards += Loss
	n.visits++
}

func (n *node) reverseLoss() {
	n.rewards -= Loss
	n.visits--
}

func (n *node) stats() (rewards float64, visits float64) {
	n.RLock()
	defer n.RUnlock()

	return n.rewards, n.visits
}

// Backup records the outcome of one episode and returns the parent.
func (n *node) Backup(winner game.Color) *node {
	n.Lock()
	defer n.Unlock()

	if n.parent != nil { // Non-root node
		n.reverseLoss()
	}

	n.rewards += reward(n.mover, winner)
	n.visits++

	return n.parent
}

// Policy maps each explored move to its visit count.
func (n *node) Policy() map[game.Move]float64 {
	n.RLock()
	defer n.RUnlock()

	policy := make(map[game.Move]float64, len(n.children))
	for i, child := range n.children {
		_, visits := child.stats()
		policy[n.explored[i]] = visits
	}
	return policy
}

func reward(player, winner game.Color) float64 {
	switch winner {
	case game.None:
		return Draw
	case player:
		return Win
	default:
		return Loss
	}
}

func play(board *game.Board, move game.Move) {
	if err := board.Play(board.Turn(), move); err != nil {
		panic(err) // moves come from LegalMoves
	}
}
