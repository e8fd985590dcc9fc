// Package feature maps a hand and the surrounding game state to the
// fixed 45-dim real vector the Q-network consumes, both in self-play and
// in imitation pre-fill (§4.4). Feature order is part of the contract: every
// index below is named so callers never depend on raw offsets.
package feature

import (
	"math"

	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
)

// Dim is the fixed feature-vector length.
const Dim = 45

// Feature-index constants, grouped by category in the order Extract
// fills them. Re-ordering these requires re-training every saved model.
const (
	// Hand features (11).
	HandValuePenalty = iota
	HandValueEligibility
	HandSize
	HandJokerCount
	HandHasPair
	HandHasSequence
	HandZapZapEligible
	HandMultiPlayCount
	HandBestPlaySizeFrac
	HandHighCardFrac
	HandLowCardFrac

	// Game-state features (10).
	GameRound
	GameDeckSizeFrac
	GameDiscardSizeFrac
	GameActiveCountFrac
	GameGoldenFlag
	GamePhaseEarly
	GamePhaseMid
	GamePhaseLate
	GameJokerInDiscard
	GameLowCardInDiscard

	// Scoring features (7).
	ScoreOwn
	ScoreMinOpponent
	ScoreMaxOpponent
	ScoreAvgOpponent
	ScoreGap
	ScoreEliminationRisk
	ScoreStdDevOpponent

	// Opponent-modeling features (6).
	OppMinHandFrac
	OppAvgHandFrac
	OppThreatFlag
	OppScoreLeaderFlag
	OppDangerousNextFlag
	OppCountFrac

	// Position features (4).
	PosOwnIndexNorm
	PosNormalized
	PosFirstFlag
	PosLastFlag

	// Advanced features (7).
	AdvSuitFracSpades
	AdvSuitFracHearts
	AdvSuitFracClubs
	AdvSuitFracDiamonds
	AdvSuitConcentrationMax
	AdvRankSpreadNorm
	AdvRankDiversityNorm
)

const (
	maxHandSize     = 10.0
	maxDeckSize     = 54.0
	maxDiscardSize  = 54.0
	maxScoreForNorm = 100.0
	maxMultiPlays   = 20.0
	eliminationGate = 100.0
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampSigned bounds a feature that may legitimately be negative (e.g.
// "am I ahead or behind") to [-1, 1] instead of floor-clamping to 0.
func clampSigned(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Extract produces the 45-dim feature vector for player p's hand given
// the current game state. The returned slice always has length Dim.
func Extract(hand cards.Hand, p int, s state.GameState) []float64 {
	v := make([]float64, Dim)

	extractHandFeatures(v, hand, s)
	extractGameFeatures(v, s)
	extractScoringFeatures(v, p, s)
	extractOpponentFeatures(v, p, s)
	extractPositionFeatures(v, p, s)
	extractAdvancedFeatures(v, hand)

	return v
}

func extractHandFeatures(v []float64, hand cards.Hand, s state.GameState) {
	plays := analyzer.FindAllValidPlays(hand)

	v[HandValuePenalty] = clamp01(float64(analyzer.CalculateHandValue(hand, true)) / 250.0)
	v[HandValueEligibility] = clamp01(float64(analyzer.CalculateHandValue(hand, false)) / 50.0)
	v[HandSize] = clamp01(float64(len(hand)) / maxHandSize)
	v[HandJokerCount] = clamp01(float64(jokerCount(hand)) / 2.0)

	hasPair, hasSeq := 0.0, 0.0
	multiCount := 0
	for _, play := range plays {
		switch analyzer.ClassifyPlay(play) {
		case analyzer.Set:
			hasPair = 1
		case analyzer.Run:
			hasSeq = 1
		}
		if len(play) >= 2 {
			multiCount++
		}
	}
	v[HandHasPair] = hasPair
	v[HandHasSequence] = hasSeq
	if analyzer.CanCallZapZap(hand) {
		v[HandZapZapEligible] = 1
	}
	v[HandMultiPlayCount] = clamp01(float64(multiCount) / maxMultiPlays)

	best := analyzer.FindMaxPointPlay(hand)
	if len(hand) > 0 {
		v[HandBestPlaySizeFrac] = clamp01(float64(len(best)) / float64(len(hand)))
	}

	high, low := 0, 0
	for _, c := range hand {
		if c.IsJoker() {
			continue
		}
		rank := int(c.Rank())
		if rank >= int(cards.Jack) {
			high++
		}
		if rank <= int(cards.Five) {
			low++
		}
	}
	if len(hand) > 0 {
		v[HandHighCardFrac] = float64(high) / float64(len(hand))
		v[HandLowCardFrac] = float64(low) / float64(len(hand))
	}
}

func extractGameFeatures(v []float64, s state.GameState) {
	v[GameRound] = clamp01(float64(s.RoundNumber) / 20.0)
	v[GameDeckSizeFrac] = clamp01(float64(len(s.Deck)) / maxDeckSize)
	v[GameDiscardSizeFrac] = clamp01(float64(len(s.DiscardPile)) / maxDiscardSize)
	v[GameActiveCountFrac] = clamp01(float64(s.ActiveCount()) / 4.0)
	if s.IsGoldenScore {
		v[GameGoldenFlag] = 1
	}

	switch {
	case s.RoundNumber <= 3:
		v[GamePhaseEarly] = 1
	case s.RoundNumber <= 8:
		v[GamePhaseMid] = 1
	default:
		v[GamePhaseLate] = 1
	}

	for _, c := range s.DiscardPile {
		if c.IsJoker() {
			v[GameJokerInDiscard] = 1
		} else if c.Points() <= 3 {
			v[GameLowCardInDiscard] = 1
		}
	}
}

func extractScoringFeatures(v []float64, p int, s state.GameState) {
	v[ScoreOwn] = clamp01(float64(s.Scores[p]) / maxScoreForNorm)

	var opp []int
	for i, sc := range s.Scores {
		if i == p || !s.IsActive(i) {
			continue
		}
		opp = append(opp, sc)
	}
	if len(opp) == 0 {
		return
	}

	min, max, sum := opp[0], opp[0], 0
	for _, sc := range opp {
		if sc < min {
			min = sc
		}
		if sc > max {
			max = sc
		}
		sum += sc
	}
	avg := float64(sum) / float64(len(opp))

	v[ScoreMinOpponent] = clamp01(float64(min) / maxScoreForNorm)
	v[ScoreMaxOpponent] = clamp01(float64(max) / maxScoreForNorm)
	v[ScoreAvgOpponent] = clamp01(avg / maxScoreForNorm)
	v[ScoreGap] = clampSigned((avg - float64(s.Scores[p])) / maxScoreForNorm)
	v[ScoreEliminationRisk] = clamp01(float64(s.Scores[p]) / eliminationGate)

	var variance float64
	for _, sc := range opp {
		d := float64(sc) - avg
		variance += d * d
	}
	variance /= float64(len(opp))
	v[ScoreStdDevOpponent] = clamp01(math.Sqrt(variance) / maxScoreForNorm)
}

func extractOpponentFeatures(v []float64, p int, s state.GameState) {
	var sizes []int
	for i, h := range s.Hands {
		if i == p || !s.IsActive(i) {
			continue
		}
		sizes = append(sizes, len(h))
	}
	if len(sizes) == 0 {
		return
	}

	min, sum := sizes[0], 0
	for _, sz := range sizes {
		if sz < min {
			min = sz
		}
		sum += sz
	}
	avg := float64(sum) / float64(len(sizes))

	v[OppMinHandFrac] = clamp01(float64(min) / maxHandSize)
	v[OppAvgHandFrac] = clamp01(avg / maxHandSize)
	if min <= 2 {
		v[OppThreatFlag] = 1
	}

	leader := p
	for i, sc := range s.Scores {
		if s.IsActive(i) && sc < s.Scores[leader] {
			leader = i
		}
	}
	if leader == p {
		v[OppScoreLeaderFlag] = 1
	}

	next := (p + 1) % s.NumPlayers()
	for !s.IsActive(next) && next != p {
		next = (next + 1) % s.NumPlayers()
	}
	if next != p && len(s.Hands[next]) <= 2 {
		v[OppDangerousNextFlag] = 1
	}

	v[OppCountFrac] = clamp01(float64(len(sizes)) / 3.0)
}

func extractPositionFeatures(v []float64, p int, s state.GameState) {
	n := s.NumPlayers()
	if n == 0 {
		return
	}
	v[PosOwnIndexNorm] = clamp01(float64(p) / float64(n))

	offset := (p - s.CurrentTurn + n) % n
	v[PosNormalized] = clamp01(float64(offset) / float64(n))
	if offset == 0 {
		v[PosFirstFlag] = 1
	}
	if offset == n-1 {
		v[PosLastFlag] = 1
	}
}

func extractAdvancedFeatures(v []float64, hand cards.Hand) {
	if len(hand) == 0 {
		return
	}
	var suitCounts [cards.NumSuits]int
	var rankSeen [cards.NumRanks]bool
	naturals := 0
	minRank, maxRank := cards.NumRanks, -1
	for _, c := range hand {
		if c.IsJoker() {
			continue
		}
		suitCounts[c.Suit()]++
		rankSeen[c.Rank()] = true
		naturals++
		if int(c.Rank()) < minRank {
			minRank = int(c.Rank())
		}
		if int(c.Rank()) > maxRank {
			maxRank = int(c.Rank())
		}
	}
	if naturals == 0 {
		return
	}

	v[AdvSuitFracSpades] = float64(suitCounts[cards.Spades]) / float64(naturals)
	v[AdvSuitFracHearts] = float64(suitCounts[cards.Hearts]) / float64(naturals)
	v[AdvSuitFracClubs] = float64(suitCounts[cards.Clubs]) / float64(naturals)
	v[AdvSuitFracDiamonds] = float64(suitCounts[cards.Diamonds]) / float64(naturals)

	maxSuit := 0
	for _, c := range suitCounts {
		if c > maxSuit {
			maxSuit = c
		}
	}
	v[AdvSuitConcentrationMax] = float64(maxSuit) / float64(naturals)

	if maxRank >= minRank {
		v[AdvRankSpreadNorm] = clamp01(float64(maxRank-minRank) / float64(cards.NumRanks-1))
	}

	diversity := 0
	for _, seen := range rankSeen {
		if seen {
			diversity++
		}
	}
	v[AdvRankDiversityNorm] = clamp01(float64(diversity) / float64(cards.NumRanks))
}

func jokerCount(hand cards.Hand) int {
	n := 0
	for _, c := range hand {
		if c.IsJoker() {
			n++
		}
	}
	return n
}
