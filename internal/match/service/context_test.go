package service

import (
	"reflect"
	"testing"

	"crossref-service/internal/match/model"
)

func contextBase() model.LogicTable {
	return model.LogicTable{
		FamilyID: "chip_resistor",
		Rules: []model.MatchingRule{
			{AttributeID: "resistance", AttributeName: "Resistance", LogicType: model.LogicIdentity, Weight: 10},
			{AttributeID: "operating_temp", AttributeName: "Operating Temperature", LogicType: model.LogicThreshold, ThresholdDirection: model.DirectionRangeSuperset, Weight: 6},
			{AttributeID: "aec_q200", AttributeName: "AEC-Q200", LogicType: model.LogicIdentityFlag, Weight: 3, EngineeringReason: "qualification flag"},
			{AttributeID: "recovery", AttributeName: "Recovery", LogicType: model.LogicIdentityUpgrade, Weight: 7, UpgradeHierarchy: []string{"Ultrafast", "Fast"}},
		},
	}
}

func contextCfg() model.FamilyContextConfig {
	return model.FamilyContextConfig{
		FamilyID: "chip_resistor",
		Questions: []model.ContextQuestion{
			{
				QuestionID: "environment",
				Options: []model.QuestionOption{
					{Value: "automotive", Effects: []model.AttributeEffect{
						{AttributeID: "aec_q200", Effect: model.EffectEscalateToMandatory, Note: "automotive requires AEC-Q200", BlockOnMissing: true},
						{AttributeID: "operating_temp", Effect: model.EffectEscalateToPrimary},
					}},
					{Value: "consumer", Effects: []model.AttributeEffect{
						{AttributeID: "aec_q200", Effect: model.EffectNotApplicable},
					}},
				},
			},
			{
				QuestionID: "low_esr",
				Options: []model.QuestionOption{
					{Value: "yes", Effects: []model.AttributeEffect{
						{AttributeID: "aec_q200", Effect: model.EffectAddReviewFlag, Note: "verify qualification report"},
						{AttributeID: "ghost_attr", Effect: model.EffectEscalateToMandatory},
					}},
				},
			},
		},
	}
}

func findRule(t *testing.T, table model.LogicTable, id string) model.MatchingRule {
	t.Helper()
	for _, r := range table.Rules {
		if r.AttributeID == id {
			return r
		}
	}
	t.Fatalf("rule %q not found", id)
	return model.MatchingRule{}
}

func TestApplyContextEscalations(t *testing.T) {
	base := contextBase()
	app := model.ApplicationContext{FamilyID: "chip_resistor", Answers: map[string]string{"environment": "automotive"}}

	out := ApplyContext(base, app, contextCfg())

	q200 := findRule(t, out, "aec_q200")
	if q200.Weight != model.MaxWeight {
		t.Errorf("aec_q200 weight = %d; want %d", q200.Weight, model.MaxWeight)
	}
	if q200.EngineeringReason != "automotive requires AEC-Q200" {
		t.Errorf("aec_q200 reason = %q; want the effect note", q200.EngineeringReason)
	}
	if !q200.BlockOnMissing {
		t.Error("aec_q200 BlockOnMissing not set")
	}

	temp := findRule(t, out, "operating_temp")
	if temp.Weight != 9 {
		t.Errorf("operating_temp weight = %d; want 9", temp.Weight)
	}
	if res := findRule(t, out, "resistance"); res.Weight != 10 {
		t.Errorf("untouched rule weight = %d; want 10", res.Weight)
	}
}

func TestApplyContextPrimaryNeverLowers(t *testing.T) {
	base := contextBase()
	base.Rules[1].Weight = 10 // already above the primary floor

	app := model.ApplicationContext{Answers: map[string]string{"environment": "automotive"}}
	out := ApplyContext(base, app, contextCfg())
	if got := findRule(t, out, "operating_temp").Weight; got != 10 {
		t.Errorf("weight = %d; escalate_to_primary must not lower an existing 10", got)
	}
}

func TestApplyContextNotApplicable(t *testing.T) {
	app := model.ApplicationContext{Answers: map[string]string{"environment": "consumer"}}
	out := ApplyContext(contextBase(), app, contextCfg())
	if got := findRule(t, out, "aec_q200").Weight; got != 0 {
		t.Errorf("aec_q200 weight = %d; want 0 after not_applicable", got)
	}
}

func TestApplyContextAddReviewFlagRetypes(t *testing.T) {
	app := model.ApplicationContext{Answers: map[string]string{"low_esr": "yes"}}
	out := ApplyContext(contextBase(), app, contextCfg())

	q200 := findRule(t, out, "aec_q200")
	if q200.LogicType != model.LogicApplicationReview {
		t.Errorf("logicType = %s; want application_review", q200.LogicType)
	}
	if q200.Weight != 3 {
		t.Errorf("weight = %d; add_review_flag must keep the weight", q200.Weight)
	}
}

func TestApplyContextLastWriterWins(t *testing.T) {
	// both questions touch aec_q200; the later question in config order wins
	app := model.ApplicationContext{Answers: map[string]string{
		"environment": "automotive",
		"low_esr":     "yes",
	}}
	out := ApplyContext(contextBase(), app, contextCfg())

	q200 := findRule(t, out, "aec_q200")
	if q200.LogicType != model.LogicApplicationReview {
		t.Errorf("logicType = %s; want the later add_review_flag applied", q200.LogicType)
	}
	if q200.EngineeringReason != "verify qualification report" {
		t.Errorf("reason = %q; want the later note", q200.EngineeringReason)
	}
	// the earlier mandatory escalation still holds fields the later effect
	// does not touch
	if q200.Weight != model.MaxWeight {
		t.Errorf("weight = %d; want %d from the earlier escalation", q200.Weight, model.MaxWeight)
	}
	if !q200.BlockOnMissing {
		t.Error("BlockOnMissing cleared by a later effect that omits it")
	}
}

func TestApplyContextIgnoresNoise(t *testing.T) {
	base := contextBase()
	app := model.ApplicationContext{Answers: map[string]string{
		"environment": "submarine", // freeform answer matches no option
		"unknown_q":   "yes",       // question not in the config
		"low_esr":     "",          // empty answer matches no option value
	}}
	out := ApplyContext(base, app, contextCfg())
	if !reflect.DeepEqual(out.Rules, base.Rules) {
		t.Error("noise answers changed the table")
	}
}

func TestApplyContextUnansweredIsIdenticalClone(t *testing.T) {
	base := contextBase()
	out := ApplyContext(base, model.ApplicationContext{}, contextCfg())

	if !reflect.DeepEqual(out, base) {
		t.Fatal("no answers must yield a value-identical table")
	}
	// and still no shared storage
	out.Rules[0].Weight = 1
	out.Rules[3].UpgradeHierarchy[0] = "Glacial"
	if base.Rules[0].Weight != 10 || base.Rules[3].UpgradeHierarchy[0] != "Ultrafast" {
		t.Error("clone shares backing storage with the base table")
	}
}

func TestApplyContextDoesNotMutateBase(t *testing.T) {
	base := contextBase()

	app := model.ApplicationContext{Answers: map[string]string{"environment": "automotive", "low_esr": "yes"}}
	_ = ApplyContext(base, app, contextCfg())

	if !reflect.DeepEqual(base, contextBase()) {
		t.Error("ApplyContext mutated the base table")
	}
}

func TestApplyContextIdempotent(t *testing.T) {
	app := model.ApplicationContext{Answers: map[string]string{"environment": "automotive"}}
	cfg := contextCfg()

	once := ApplyContext(contextBase(), app, cfg)
	twice := ApplyContext(once, app, cfg)
	if !reflect.DeepEqual(once, twice) {
		t.Error("reapplying the same answers changed the table again")
	}
}
