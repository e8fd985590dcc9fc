package strategy

import (
	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
)

// VinceWeights holds HardVince's tunable parameters. The genetic
// optimizer treats this as a 35-dimensional real vector via ToVector /
// FromVector; field order is the gene order and must not change without
// updating every saved genetic run.
type VinceWeights struct {
	ResidualHandValueWeight float64
	PlaySizeBonus           float64

	GoldenJokerPenalty      float64
	JokerInSetMinOppHand    float64
	JokerInSetBonus         float64
	JokerInSequenceBonus    float64
	JokerInSequencePenalty  float64

	FutureComboCardWeight float64

	EarlyGameHandSizeFloor       float64
	EarlyGameIntermediateLow     float64
	EarlyGameIntermediateHigh    float64
	EarlyGameIntermediateBonus   float64
	EarlyGameHighPairRankFloor   float64
	EarlyGameHighPairBreakPenalty float64

	HighThreatHandSizeThreshold float64
	HighThreatResidualPenalty   float64

	ZapZapBaseValueThreshold    float64
	ZapZapDefensiveRiskThreshold float64
	ZapZapRoundScalingBase      float64
	ZapZapRoundScalingStep      float64
	ZapZapMaxValue              float64

	OpponentRiskDecay          float64
	OpponentRiskRoundIncrement float64

	DrawGoldenJokerHoard      float64
	DrawLowHandValueThreshold float64
	DrawLowValueJokerBonus    float64
	DrawMarginalComboWeight   float64
	DrawLowPointBonus         float64
	DrawSameRankInHandBonus   float64
	DrawSeenCardPenaltyWeight float64
	DrawExpectedValueThreshold float64
	DrawDeckExpectedBaseValue float64

	PlayCountTieBreakWeight float64
	DrawPlayedMinHandSize   float64
	AggressionBias          float64
}

// DefaultVinceWeights returns the hand-tuned baseline the genetic
// optimizer seeds its population with.
func DefaultVinceWeights() VinceWeights {
	return VinceWeights{
		ResidualHandValueWeight:       1.0,
		PlaySizeBonus:                 0.5,
		GoldenJokerPenalty:            8.0,
		JokerInSetMinOppHand:          4.0,
		JokerInSetBonus:               2.0,
		JokerInSequenceBonus:          2.5,
		JokerInSequencePenalty:        3.0,
		FutureComboCardWeight:         1.2,
		EarlyGameHandSizeFloor:        5.0,
		EarlyGameIntermediateLow:      5.0,
		EarlyGameIntermediateHigh:     9.0,
		EarlyGameIntermediateBonus:    1.0,
		EarlyGameHighPairRankFloor:    11.0,
		EarlyGameHighPairBreakPenalty: 1.5,
		HighThreatHandSizeThreshold:   3.0,
		HighThreatResidualPenalty:     0.3,
		ZapZapBaseValueThreshold:      2.0,
		ZapZapDefensiveRiskThreshold:  0.4,
		ZapZapRoundScalingBase:        1.0,
		ZapZapRoundScalingStep:        0.15,
		ZapZapMaxValue:                5.0,
		OpponentRiskDecay:             0.9,
		OpponentRiskRoundIncrement:    0.25,
		DrawGoldenJokerHoard:          1.0,
		DrawLowHandValueThreshold:     4.0,
		DrawLowValueJokerBonus:        3.0,
		DrawMarginalComboWeight:       1.5,
		DrawLowPointBonus:             0.5,
		DrawSameRankInHandBonus:       0.8,
		DrawSeenCardPenaltyWeight:     0.4,
		DrawExpectedValueThreshold:    0.75,
		DrawDeckExpectedBaseValue:     7.0,
		PlayCountTieBreakWeight:       0.1,
		DrawPlayedMinHandSize:         2.0,
		AggressionBias:                0.0,
	}
}

// ToVector flattens the weights into the gene order consumed by the
// genetic optimizer.
func (w VinceWeights) ToVector() []float64 {
	return []float64{
		w.ResidualHandValueWeight, w.PlaySizeBonus,
		w.GoldenJokerPenalty, w.JokerInSetMinOppHand, w.JokerInSetBonus,
		w.JokerInSequenceBonus, w.JokerInSequencePenalty,
		w.FutureComboCardWeight,
		w.EarlyGameHandSizeFloor, w.EarlyGameIntermediateLow, w.EarlyGameIntermediateHigh,
		w.EarlyGameIntermediateBonus, w.EarlyGameHighPairRankFloor, w.EarlyGameHighPairBreakPenalty,
		w.HighThreatHandSizeThreshold, w.HighThreatResidualPenalty,
		w.ZapZapBaseValueThreshold, w.ZapZapDefensiveRiskThreshold,
		w.ZapZapRoundScalingBase, w.ZapZapRoundScalingStep, w.ZapZapMaxValue,
		w.OpponentRiskDecay, w.OpponentRiskRoundIncrement,
		w.DrawGoldenJokerHoard, w.DrawLowHandValueThreshold, w.DrawLowValueJokerBonus,
		w.DrawMarginalComboWeight, w.DrawLowPointBonus, w.DrawSameRankInHandBonus,
		w.DrawSeenCardPenaltyWeight, w.DrawExpectedValueThreshold, w.DrawDeckExpectedBaseValue,
		w.PlayCountTieBreakWeight, w.DrawPlayedMinHandSize, w.AggressionBias,
	}
}

// VinceWeightCount is the gene-vector length ToVector/FromVector agree on.
const VinceWeightCount = 35

// VinceWeightsFromVector rebuilds a VinceWeights from a gene vector in
// ToVector's order. Panics if v is not exactly VinceWeightCount long.
func VinceWeightsFromVector(v []float64) VinceWeights {
	if len(v) != VinceWeightCount {
		panic("strategy: VinceWeightsFromVector requires a 35-element vector")
	}
	return VinceWeights{
		ResidualHandValueWeight: v[0], PlaySizeBonus: v[1],
		GoldenJokerPenalty: v[2], JokerInSetMinOppHand: v[3], JokerInSetBonus: v[4],
		JokerInSequenceBonus: v[5], JokerInSequencePenalty: v[6],
		FutureComboCardWeight: v[7],
		EarlyGameHandSizeFloor: v[8], EarlyGameIntermediateLow: v[9], EarlyGameIntermediateHigh: v[10],
		EarlyGameIntermediateBonus: v[11], EarlyGameHighPairRankFloor: v[12], EarlyGameHighPairBreakPenalty: v[13],
		HighThreatHandSizeThreshold: v[14], HighThreatResidualPenalty: v[15],
		ZapZapBaseValueThreshold: v[16], ZapZapDefensiveRiskThreshold: v[17],
		ZapZapRoundScalingBase: v[18], ZapZapRoundScalingStep: v[19], ZapZapMaxValue: v[20],
		OpponentRiskDecay: v[21], OpponentRiskRoundIncrement: v[22],
		DrawGoldenJokerHoard: v[23], DrawLowHandValueThreshold: v[24], DrawLowValueJokerBonus: v[25],
		DrawMarginalComboWeight: v[26], DrawLowPointBonus: v[27], DrawSameRankInHandBonus: v[28],
		DrawSeenCardPenaltyWeight: v[29], DrawExpectedValueThreshold: v[30], DrawDeckExpectedBaseValue: v[31],
		PlayCountTieBreakWeight: v[32], DrawPlayedMinHandSize: v[33], AggressionBias: v[34],
	}
}

// HardVince is the parametric rule-based bot whose weights are the
// genetic optimizer's search target (§4.3). Its opponent-risk estimate
// is carried across rounds within a single game: each time a new round
// is seen, it is multiplied by OpponentRiskDecay and then raised by
// OpponentRiskRoundIncrement (a round ending implies someone was close
// enough to call ZapZap). It is reset at game end.
type HardVince struct {
	BaseStrategy
	Weights VinceWeights

	lastSeenRound int
	opponentRisk  float64
}

// NewHardVince returns a HardVince strategy with the given weights.
func NewHardVince(w VinceWeights) *HardVince {
	return &HardVince{Weights: w}
}

func (v *HardVince) SelectHandSize(activeCount int, isGoldenScore bool) int {
	if isGoldenScore {
		return 10
	}
	return 7
}

func (v *HardVince) updateOpponentRisk(s state.GameState) {
	w := v.Weights
	if s.RoundNumber != v.lastSeenRound {
		if s.RoundNumber > v.lastSeenRound {
			v.opponentRisk = v.opponentRisk*w.OpponentRiskDecay + w.OpponentRiskRoundIncrement
		}
		v.lastSeenRound = s.RoundNumber
	}
}

func (v *HardVince) ShouldZapZap(hand cards.Hand, s state.GameState) bool {
	v.updateOpponentRisk(s)
	w := v.Weights
	value := float64(analyzer.CalculateHandValue(hand, false))
	if value > 5 {
		return false
	}
	if v.opponentRisk < w.ZapZapDefensiveRiskThreshold {
		return value <= 2
	}
	effective := w.ZapZapRoundScalingBase + w.ZapZapRoundScalingStep*float64(s.RoundNumber)
	if effective > w.ZapZapMaxValue {
		effective = w.ZapZapMaxValue
	}
	if effective < w.ZapZapBaseValueThreshold {
		effective = w.ZapZapBaseValueThreshold
	}
	return value <= effective
}

func (v *HardVince) SelectPlay(hand cards.Hand, s state.GameState) cards.Hand {
	w := v.Weights
	plays := analyzer.FindAllValidPlays(hand)
	if len(plays) == 0 {
		return nil
	}

	minOpp := float64(minOpponentHandSize(s))
	allHandsLarge := true
	for i, h := range s.Hands {
		if s.IsActive(i) && len(h) < int(w.EarlyGameHandSizeFloor) {
			allHandsLarge = false
			break
		}
	}

	var topPlayed cards.Card
	hasTopPlayed := len(s.LastCardsPlayed) > 0
	if hasTopPlayed {
		topPlayed = s.LastCardsPlayed[len(s.LastCardsPlayed)-1]
	}

	var best cards.Hand
	bestScore := negInf
	for _, play := range plays {
		leftover := hand.Without(play)
		score := -float64(analyzer.CalculateHandValue(leftover, true))*w.ResidualHandValueWeight +
			w.PlaySizeBonus*float64(len(play)) +
			w.PlayCountTieBreakWeight*float64(len(play))

		containsJoker := false
		for _, c := range play {
			if c.IsJoker() {
				containsJoker = true
				break
			}
		}

		if s.IsGoldenScore && containsJoker {
			score -= w.GoldenJokerPenalty
		}

		if containsJoker {
			switch analyzer.ClassifyPlay(play) {
			case analyzer.Set:
				if minOpp < w.JokerInSetMinOppHand {
					score += w.JokerInSetBonus
				}
			case analyzer.Run:
				if minOpp < w.JokerInSetMinOppHand {
					score += w.JokerInSequenceBonus
				} else {
					score -= w.JokerInSequencePenalty
				}
			}
		}

		if hasTopPlayed {
			comboCount := 0
			for _, c := range leftover {
				if analyzer.WouldCompletePair(cards.Hand{c}, topPlayed) || analyzer.WouldCompleteSequence(cards.Hand{c}, topPlayed) {
					comboCount++
				}
			}
			score += w.FutureComboCardWeight * float64(comboCount)
		}

		if allHandsLarge {
			for _, c := range play {
				if c.IsJoker() {
					continue
				}
				rank := float64(c.Rank()) + 1
				if rank >= w.EarlyGameIntermediateLow && rank <= w.EarlyGameIntermediateHigh {
					score += w.EarlyGameIntermediateBonus
				}
				if rank >= w.EarlyGameHighPairRankFloor && analyzer.ClassifyPlay(play) != analyzer.Set {
					score -= w.EarlyGameHighPairBreakPenalty
				}
			}
		}

		if minOpp <= w.HighThreatHandSizeThreshold {
			score -= w.HighThreatResidualPenalty * float64(analyzer.CalculateHandValue(leftover, true))
		}

		score += w.AggressionBias

		if score > bestScore {
			bestScore = score
			best = play
		}
	}
	return best
}

func (v *HardVince) SelectDrawSource(hand, lastCardsPlayed cards.Hand, s state.GameState) state.DrawSource {
	w := v.Weights
	if len(lastCardsPlayed) == 0 {
		return state.DrawFromDeck
	}
	if len(hand) <= int(w.DrawPlayedMinHandSize) {
		return state.DrawFromDeck
	}
	top := lastCardsPlayed[len(lastCardsPlayed)-1]

	if s.IsGoldenScore && top.IsJoker() && w.DrawGoldenJokerHoard > 0 {
		return state.DrawFromPlayed
	}

	handValue := float64(analyzer.CalculateHandValue(hand, false))
	if handValue <= w.DrawLowHandValueThreshold && top.IsJoker() {
		return state.DrawFromPlayed
	}

	marginal := 0.0
	if analyzer.WouldCompletePair(hand, top) || analyzer.WouldCompleteSequence(hand, top) {
		marginal += w.DrawMarginalComboWeight
	}
	if !top.IsJoker() && top.Points() <= 3 {
		marginal += w.DrawLowPointBonus
	}
	seenOfRank := 0
	if !top.IsJoker() {
		for _, c := range hand {
			if !c.IsJoker() && c.Rank() == top.Rank() {
				seenOfRank++
				marginal += w.DrawSameRankInHandBonus
			}
		}
	}
	marginal -= w.DrawSeenCardPenaltyWeight * float64(seenOfRank)

	expected := w.DrawDeckExpectedBaseValue
	if marginal-expected >= w.DrawExpectedValueThreshold {
		return state.DrawFromPlayed
	}
	return state.DrawFromDeck
}

func (v *HardVince) OnGameEnd(result GameResult, myIndex int) {
	v.opponentRisk = 0
	v.lastSeenRound = 0
}

const negInf = -1e18
