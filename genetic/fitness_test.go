package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitnessBalancedIsWinRateOnly(t *testing.T) {
	stats := BatchStats{Games: 100, Wins: 40, CounteractionLosses: 10, ZapZapCalls: 50}
	assert.InDelta(t, 0.4, Fitness("balanced", stats), 1e-9)
}

func TestFitnessUnknownStyleFallsBackToBalanced(t *testing.T) {
	stats := BatchStats{Games: 100, Wins: 25}
	assert.InDelta(t, Fitness("balanced", stats), Fitness("does-not-exist", stats), 1e-9)
}

func TestFitnessDefensiveRewardsAvoidingCounteraction(t *testing.T) {
	lowLoss := BatchStats{Games: 100, Wins: 40, CounteractionLosses: 0}
	highLoss := BatchStats{Games: 100, Wins: 40, CounteractionLosses: 40}
	assert.Greater(t, Fitness("defensive", lowLoss), Fitness("defensive", highLoss))
}

func TestFitnessAggressiveRewardsZapZapFrequency(t *testing.T) {
	frequent := BatchStats{Games: 100, Wins: 40, ZapZapCalls: 80}
	rare := BatchStats{Games: 100, Wins: 40, ZapZapCalls: 5}
	assert.Greater(t, Fitness("aggressive", frequent), Fitness("aggressive", rare))
}

func TestFitnessZeroGamesReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, Fitness("balanced", BatchStats{}))
}
