// Package config loads HCL weight-constraint profiles and curriculum
// phase definitions, and emits human-readable YAML snapshots of either,
// the same division of labor lox-pokerforbots uses for its server/bot
// HCL configs.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/zapzap/zapzap/genetic"
)

// ConstraintFile is the HCL schema for a weight-constraint profile: one
// named `gene` block per gene whose search band should differ from
// genetic.DefaultConstraints' default +/-70% band.
type ConstraintFile struct {
	Genes []GeneOverride `hcl:"gene,block"`
}

// GeneOverride narrows or widens one gene's (min_mult, max_mult) band,
// relative to its default value (genetic.GeneConstraint's contract).
type GeneOverride struct {
	Name    string  `hcl:"name,label"`
	MinMult float64 `hcl:"min_mult"`
	MaxMult float64 `hcl:"max_mult"`
}

// geneIndex maps a VinceWeights field's HCL name to its index in
// strategy.VinceWeights.ToVector's gene order.
var geneIndex = map[string]int{
	"residual_hand_value_weight":       0,
	"play_size_bonus":                  1,
	"golden_joker_penalty":              2,
	"joker_in_set_min_opp_hand":         3,
	"joker_in_set_bonus":                4,
	"joker_in_sequence_bonus":           5,
	"joker_in_sequence_penalty":         6,
	"future_combo_card_weight":          7,
	"early_game_hand_size_floor":        8,
	"early_game_intermediate_low":       9,
	"early_game_intermediate_high":      10,
	"early_game_intermediate_bonus":     11,
	"early_game_high_pair_rank_floor":   12,
	"early_game_high_pair_break_penalty": 13,
	"high_threat_hand_size_threshold":   14,
	"high_threat_residual_penalty":      15,
	"zap_zap_base_value_threshold":      16,
	"zap_zap_defensive_risk_threshold":  17,
	"zap_zap_round_scaling_base":        18,
	"zap_zap_round_scaling_step":        19,
	"zap_zap_max_value":                 20,
	"opponent_risk_decay":               21,
	"opponent_risk_round_increment":     22,
	"draw_golden_joker_hoard":           23,
	"draw_low_hand_value_threshold":     24,
	"draw_low_value_joker_bonus":        25,
	"draw_marginal_combo_weight":        26,
	"draw_low_point_bonus":              27,
	"draw_same_rank_in_hand_bonus":      28,
	"draw_seen_card_penalty_weight":     29,
	"draw_expected_value_threshold":     30,
	"draw_deck_expected_base_value":     31,
	"play_count_tie_break_weight":       32,
	"draw_played_min_hand_size":         33,
	"aggression_bias":                   34,
}

// LoadConstraintProfile reads an HCL constraint profile at path,
// starting from genetic.DefaultConstraints and applying each named
// override on top. A missing file is not an error: it returns the
// unmodified defaults, matching lox-pokerforbots's
// LoadServerConfig("missing file falls back to defaults") convention.
func LoadConstraintProfile(path string) ([]genetic.GeneConstraint, error) {
	constraints := genetic.DefaultConstraints()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return constraints, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse constraint profile: %s", diags.Error())
	}

	var parsed ConstraintFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("config: decode constraint profile: %s", diags.Error())
	}

	for _, g := range parsed.Genes {
		idx, ok := geneIndex[g.Name]
		if !ok {
			return nil, fmt.Errorf("config: unknown gene %q in constraint profile", g.Name)
		}
		constraints[idx] = genetic.GeneConstraint{MinMult: g.MinMult, MaxMult: g.MaxMult}
	}
	return constraints, nil
}
