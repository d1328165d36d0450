package searcher

import "math"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

// Rewards from the perspective of the player who moved into a node.
const (
	Win  = 1.0
	Loss = -Win
	Draw = 0.0 // tie, or a rollout stopped at the cutoff
)

// uctPolicy scores the children of a node visited parentVisits times.
type uctPolicy struct {
	explore float64 // c^2 * ln(N)
}

func newUCT(cSquared float64, parentVisits float64) uctPolicy {
	if parentVisits <= 0 {
		panic("parent visits must be positive")
	}
	return uctPolicy{explore: cSquared * math.Log(parentVisits)}
}

// score = q/n + sqrt(c^2*ln(N)/n)
func (p uctPolicy) score(rewards float64, visits float64) float64 {
	if visits <= 0 {
		panic("child visits must be positive")
	}
	return rewards/visits + math.Sqrt(p.explore/visits)
}
