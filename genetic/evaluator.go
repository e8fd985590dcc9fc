package genetic

import (
	"github.com/zapzap/zapzap/engine"
	"github.com/zapzap/zapzap/strategy"
)

// SeatCount is the number of seats a fitness evaluation game uses: the
// candidate individual in seat 0 against 3 copies of the baseline bot,
// matching the spec's "designated seat... against the baseline bot in
// the others."
const SeatCount = 4

// Evaluate runs games games of the candidate's HardVince weights
// against opponents built by baseline and returns the batch counters
// Fitness scores against a style.
func Evaluate(weights strategy.VinceWeights, games int, baseSeed int64, baseline func() strategy.Strategy) BatchStats {
	var stats BatchStats
	stats.Games = games

	for g := 0; g < games; g++ {
		strategies := make([]strategy.Strategy, SeatCount)
		strategies[0] = strategy.NewHardVince(weights)
		for i := 1; i < SeatCount; i++ {
			strategies[i] = baseline()
		}

		result, err := engine.RunGame(strategies, baseSeed+int64(g))
		if err != nil {
			continue
		}

		if result.Winner == 0 {
			stats.Wins++
		}
		stats.ZapZapCalls += result.Metrics.ZapZapCalls
		if len(result.Metrics.CounteractedCallsBySeat) > 0 {
			stats.CounteractionLosses += result.Metrics.CounteractedCallsBySeat[0]
		}
	}
	return stats
}

// DefaultBaseline returns a fresh Hard strategy, the spec's baseline
// bot for genetic-optimizer fitness evaluation.
func DefaultBaseline() strategy.Strategy {
	return strategy.Hard{}
}
