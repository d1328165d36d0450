package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(CSquared, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTScore(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(CSquared, 100)
		got := policy.score(5.0, 10)

		expected := 5.0/10 + math.Sqrt(CSquared*math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001, "Should compute q/n + sqrt(c^2*ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		require.Panics(t, func() {
			policy.score(5.0, 0)
		}, "Should panic when n is 0")
	})

	t.Run("single parent visit means pure exploitation", func(t *testing.T) {
		policy := newUCT(CSquared, 1)

		require.InDelta(t, -0.5, policy.score(-1, 2), 1e-9, "ln(1) should remove the exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		require.Greater(t, policy.score(0, 10), policy.score(0, 20), "More child visits should decrease exploration")
	})

	t.Run("losses lower the score", func(t *testing.T) {
		policy := newUCT(CSquared, 100)

		require.Greater(t, policy.score(Win*5, 10), policy.score(Loss*5, 10), "Wins should score above losses")
	})
}
