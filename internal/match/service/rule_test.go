package service

import (
	"strings"
	"testing"

	"crossref-service/internal/match/model"
)

func pa(id, value string) *model.ParametricAttribute {
	return &model.ParametricAttribute{ParameterID: id, Value: value}
}

func TestEvaluateRuleIdentity(t *testing.T) {
	rule := model.MatchingRule{AttributeID: "resistance", AttributeName: "Resistance", LogicType: model.LogicIdentity, Weight: 10}

	tests := []struct {
		name       string
		src, cand  *model.ParametricAttribute
		wantResult model.RuleResult
		wantStatus model.MatchStatus
	}{
		{"numeric equal across unit text", pa("resistance", "100 kΩ"), pa("resistance", "100kOhm"), model.ResultPass, model.StatusExact},
		{"numeric different", pa("resistance", "100 kΩ"), pa("resistance", "220 kΩ"), model.ResultFail, model.StatusDifferent},
		{"string equal ignoring case", pa("resistance", "smd"), pa("resistance", " SMD "), model.ResultPass, model.StatusExact},
		{"string different", pa("resistance", "radial"), pa("resistance", "axial"), model.ResultFail, model.StatusDifferent},
		{"source missing makes rule inapplicable", nil, pa("resistance", "100"), model.ResultPass, model.StatusCompatible},
		{"candidate missing fails", pa("resistance", "100"), nil, model.ResultFail, model.StatusDifferent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := EvaluateRule(rule, tt.src, tt.cand)
			if m.Result != tt.wantResult || m.MatchStatus != tt.wantStatus {
				t.Errorf("got %s/%s; want %s/%s", m.Result, m.MatchStatus, tt.wantResult, tt.wantStatus)
			}
		})
	}
}

func TestEvaluateRuleUpgrade(t *testing.T) {
	rule := model.MatchingRule{
		AttributeID:      "recovery_speed",
		AttributeName:    "Recovery Speed",
		LogicType:        model.LogicIdentityUpgrade,
		Weight:           7,
		UpgradeHierarchy: []string{"Ultrafast", "Fast", "Standard"},
	}

	tests := []struct {
		name       string
		src, cand  string
		wantResult model.RuleResult
		wantStatus model.MatchStatus
	}{
		{"same tier", "Fast", "fast", model.ResultPass, model.StatusExact},
		{"candidate on better tier", "Standard", "Ultrafast", model.ResultUpgrade, model.StatusBetter},
		{"candidate on lower tier", "Fast", "Standard", model.ResultFail, model.StatusWorse},
		{"both off hierarchy but equal", "Schottky", "schottky", model.ResultPass, model.StatusExact},
		{"both off hierarchy and different", "Schottky", "SiC", model.ResultFail, model.StatusDifferent},
		{"one side off hierarchy", "Fast", "Schottky", model.ResultFail, model.StatusDifferent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := EvaluateRule(rule, pa("recovery_speed", tt.src), pa("recovery_speed", tt.cand))
			if m.Result != tt.wantResult || m.MatchStatus != tt.wantStatus {
				t.Errorf("%s vs %s: got %s/%s; want %s/%s", tt.src, tt.cand, m.Result, m.MatchStatus, tt.wantResult, tt.wantStatus)
			}
		})
	}

	up := EvaluateRule(rule, pa("recovery_speed", "Standard"), pa("recovery_speed", "Ultrafast"))
	if !strings.Contains(up.Note, "upgrades") {
		t.Errorf("upgrade note = %q; want an explanation", up.Note)
	}
}

func TestEvaluateRuleUpgradeTierSubstring(t *testing.T) {
	rule := model.MatchingRule{
		AttributeID:      "dielectric",
		LogicType:        model.LogicIdentityUpgrade,
		UpgradeHierarchy: []string{"C0G/NP0", "X7R", "X5R"},
	}
	// datasheet spellings rarely match the tier label byte for byte
	m := EvaluateRule(rule, pa("dielectric", "X5R"), pa("dielectric", "X7R (±15%)"))
	if m.Result != model.ResultUpgrade || m.MatchStatus != model.StatusBetter {
		t.Fatalf("got %s/%s; want upgrade/better", m.Result, m.MatchStatus)
	}
}

func TestEvaluateRuleFlag(t *testing.T) {
	rule := model.MatchingRule{AttributeID: "aec_q200", AttributeName: "AEC-Q200", LogicType: model.LogicIdentityFlag, Weight: 3}

	tests := []struct {
		name       string
		src, cand  *model.ParametricAttribute
		wantResult model.RuleResult
		wantStatus model.MatchStatus
	}{
		{"required capability dropped", pa("aec_q200", "yes"), pa("aec_q200", "no"), model.ResultFail, model.StatusWorse},
		{"required capability missing entirely", pa("aec_q200", "yes"), nil, model.ResultFail, model.StatusWorse},
		{"capability added", pa("aec_q200", "no"), pa("aec_q200", "yes"), model.ResultPass, model.StatusBetter},
		{"both unqualified", pa("aec_q200", "no"), pa("aec_q200", "no"), model.ResultPass, model.StatusExact},
		{"both absent", nil, nil, model.ResultPass, model.StatusExact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := EvaluateRule(rule, tt.src, tt.cand)
			if m.Result != tt.wantResult || m.MatchStatus != tt.wantStatus {
				t.Errorf("got %s/%s; want %s/%s", m.Result, m.MatchStatus, tt.wantResult, tt.wantStatus)
			}
		})
	}
}

func TestEvaluateRuleThreshold(t *testing.T) {
	gte := model.MatchingRule{AttributeID: "voltage_rating", LogicType: model.LogicThreshold, ThresholdDirection: model.DirectionGTE, Weight: 9}
	lte := model.MatchingRule{AttributeID: "forward_voltage", LogicType: model.LogicThreshold, ThresholdDirection: model.DirectionLTE, Weight: 6}
	unset := model.MatchingRule{AttributeID: "power_rating", LogicType: model.LogicThreshold, Weight: 9}

	tests := []struct {
		name       string
		rule       model.MatchingRule
		src, cand  string
		wantResult model.RuleResult
		wantStatus model.MatchStatus
	}{
		{"gte candidate higher", gte, "16 V", "25 V", model.ResultPass, model.StatusBetter},
		{"gte candidate equal", gte, "16 V", "16V", model.ResultPass, model.StatusExact},
		{"gte candidate lower", gte, "16 V", "10 V", model.ResultFail, model.StatusWorse},
		{"lte candidate lower", lte, "1.1 V", "0.9 V", model.ResultPass, model.StatusBetter},
		{"lte candidate higher", lte, "1.1 V", "1.7 V", model.ResultFail, model.StatusWorse},
		{"unset direction defaults to gte", unset, "0.1 W", "0.25 W", model.ResultPass, model.StatusBetter},
		{"text equal passes", gte, "derated", "derated", model.ResultPass, model.StatusExact},
		{"not comparable degrades to review", gte, "derated", "full", model.ResultReview, model.StatusDifferent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := EvaluateRule(tt.rule, pa(tt.rule.AttributeID, tt.src), pa(tt.rule.AttributeID, tt.cand))
			if m.Result != tt.wantResult || m.MatchStatus != tt.wantStatus {
				t.Errorf("got %s/%s; want %s/%s", m.Result, m.MatchStatus, tt.wantResult, tt.wantStatus)
			}
		})
	}

	t.Run("missing candidate warrants review not failure", func(t *testing.T) {
		m := EvaluateRule(gte, pa("voltage_rating", "16 V"), nil)
		if m.Result != model.ResultReview || m.Note == "" {
			t.Errorf("got %s with note %q; want review with note", m.Result, m.Note)
		}
	})
}

func TestEvaluateRuleToleranceLowerWins(t *testing.T) {
	rule := model.MatchingRule{AttributeID: "tolerance", LogicType: model.LogicThreshold, Weight: 8}

	tests := []struct {
		name       string
		src, cand  string
		wantResult model.RuleResult
		wantStatus model.MatchStatus
	}{
		{"tighter tolerance is better", "±10%", "±5%", model.ResultPass, model.StatusBetter},
		{"equal tolerance", "±5%", "5%", model.ResultPass, model.StatusExact},
		{"looser tolerance fails", "±5%", "±20%", model.ResultFail, model.StatusWorse},
		{"unparseable degrades to review", "±5%", "tight", model.ResultReview, model.StatusCompatible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := EvaluateRule(rule, pa("tolerance", tt.src), pa("tolerance", tt.cand))
			if m.Result != tt.wantResult || m.MatchStatus != tt.wantStatus {
				t.Errorf("got %s/%s; want %s/%s", m.Result, m.MatchStatus, tt.wantResult, tt.wantStatus)
			}
		})
	}
}

func TestEvaluateRuleMSLLowerWins(t *testing.T) {
	rule := model.MatchingRule{AttributeID: "msl", LogicType: model.LogicThreshold, ThresholdDirection: model.DirectionLTE, Weight: 3}

	m := EvaluateRule(rule, pa("msl", "MSL 3"), pa("msl", "1"))
	if m.Result != model.ResultPass || m.MatchStatus != model.StatusBetter {
		t.Errorf("MSL 1 against 3: got %s/%s; want pass/better", m.Result, m.MatchStatus)
	}
	m = EvaluateRule(rule, pa("msl", "3"), pa("msl", "MSL 4"))
	if m.Result != model.ResultFail || m.MatchStatus != model.StatusWorse {
		t.Errorf("MSL 4 against 3: got %s/%s; want fail/worse", m.Result, m.MatchStatus)
	}
}

func TestEvaluateRuleRangeSuperset(t *testing.T) {
	rule := model.MatchingRule{AttributeID: "operating_temp", LogicType: model.LogicThreshold, ThresholdDirection: model.DirectionRangeSuperset, Weight: 6}

	tests := []struct {
		name       string
		src, cand  string
		wantResult model.RuleResult
		wantStatus model.MatchStatus
	}{
		{"identical range", "-55°C ~ 125°C", "-55 ~ 125", model.ResultPass, model.StatusExact},
		{"wider candidate covers", "-55°C ~ 125°C", "-65°C ~ 150°C", model.ResultPass, model.StatusBetter},
		{"narrower candidate fails", "-55°C ~ 125°C", "-40°C ~ 85°C", model.ResultFail, model.StatusWorse},
		{"shifted candidate fails", "-55°C ~ 125°C", "-65°C ~ 105°C", model.ResultFail, model.StatusWorse},
		{"unparseable degrades to review", "-55°C ~ 125°C", "wide", model.ResultReview, model.StatusCompatible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := EvaluateRule(rule, pa("operating_temp", tt.src), pa("operating_temp", tt.cand))
			if m.Result != tt.wantResult || m.MatchStatus != tt.wantStatus {
				t.Errorf("got %s/%s; want %s/%s", m.Result, m.MatchStatus, tt.wantResult, tt.wantStatus)
			}
		})
	}
}

func TestEvaluateRuleFitIgnoresConfiguredDirection(t *testing.T) {
	// a physical dimension may shrink, never grow, whatever the rule says
	rule := model.MatchingRule{AttributeID: "diameter_mm", LogicType: model.LogicFit, ThresholdDirection: model.DirectionGTE, Weight: 8}

	m := EvaluateRule(rule, pa("diameter_mm", "10"), pa("diameter_mm", "8"))
	if m.Result != model.ResultPass || m.MatchStatus != model.StatusBetter {
		t.Errorf("smaller can: got %s/%s; want pass/better", m.Result, m.MatchStatus)
	}
	m = EvaluateRule(rule, pa("diameter_mm", "10"), pa("diameter_mm", "12.5"))
	if m.Result != model.ResultFail || m.MatchStatus != model.StatusWorse {
		t.Errorf("larger can: got %s/%s; want fail/worse", m.Result, m.MatchStatus)
	}
}

func TestEvaluateRuleApplicationReview(t *testing.T) {
	rule := model.MatchingRule{
		AttributeID:       "dc_bias_characteristic",
		LogicType:         model.LogicApplicationReview,
		Weight:            4,
		EngineeringReason: "confirm against the bias curve",
	}
	m := EvaluateRule(rule, pa("dc_bias_characteristic", "curve A"), pa("dc_bias_characteristic", "curve A"))
	if m.Result != model.ResultReview || m.MatchStatus != model.StatusCompatible {
		t.Fatalf("got %s/%s; want review/compatible even on equal values", m.Result, m.MatchStatus)
	}
	if m.Note != rule.EngineeringReason {
		t.Errorf("note = %q; want the engineering reason", m.Note)
	}
}

func TestEvaluateRuleOperationalNeverBlocks(t *testing.T) {
	rule := model.MatchingRule{AttributeID: "termination", LogicType: model.LogicOperational, Weight: 1}

	m := EvaluateRule(rule, pa("termination", "Sn"), pa("termination", "sn"))
	if m.Result != model.ResultInfo || m.MatchStatus != model.StatusExact {
		t.Errorf("equal finish: got %s/%s; want info/exact", m.Result, m.MatchStatus)
	}
	m = EvaluateRule(rule, pa("termination", "Sn"), pa("termination", "Au"))
	if m.Result != model.ResultInfo || m.MatchStatus != model.StatusCompatible || m.Note == "" {
		t.Errorf("different finish: got %s/%s note %q; want info/compatible with note", m.Result, m.MatchStatus, m.Note)
	}
}
