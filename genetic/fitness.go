package genetic

// StylePresets weights the three signals a batch of games against the
// baseline bot produces into a single fitness scalar (§5 supplemented
// feature: fitness style presets). "balanced" matches the spec's
// default win-rate-only fitness; "defensive" and "aggressive" are
// additive refinements a complete optimizer would offer alongside it.
var StylePresets = map[string]map[string]float64{
	"balanced": {
		"win_rate":               1.0,
		"counteraction_avoided":  0.0,
		"zap_zap_call_frequency": 0.0,
	},
	"defensive": {
		"win_rate":               0.7,
		"counteraction_avoided":  0.3,
		"zap_zap_call_frequency": 0.0,
	},
	"aggressive": {
		"win_rate":               0.7,
		"counteraction_avoided":  0.0,
		"zap_zap_call_frequency": 0.3,
	},
}

// BatchStats summarizes a batch of evaluation games for one individual.
type BatchStats struct {
	Games              int
	Wins               int
	CounteractionLosses int
	ZapZapCalls        int
}

// Fitness combines a batch's raw counters into a scalar fitness under
// the named style. Unknown styles fall back to "balanced".
func Fitness(style string, s BatchStats) float64 {
	weights, ok := StylePresets[style]
	if !ok {
		weights = StylePresets["balanced"]
	}
	if s.Games == 0 {
		return 0
	}
	winRate := float64(s.Wins) / float64(s.Games)
	counteractionAvoided := 1.0 - float64(s.CounteractionLosses)/float64(s.Games)
	callFrequency := float64(s.ZapZapCalls) / float64(s.Games)

	return weights["win_rate"]*winRate +
		weights["counteraction_avoided"]*counteractionAvoided +
		weights["zap_zap_call_frequency"]*callFrequency
}
