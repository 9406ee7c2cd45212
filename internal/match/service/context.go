package service

import "crossref-service/internal/match/model"

// escalate_to_primary floor; escalate_to_mandatory uses model.MaxWeight.
const primaryWeight = 9

// ApplyContext produces the effective logic table for a set of qualification
// answers. The base table is never touched: rules are deep-cloned first and
// every effect lands on the clone. Questions apply in config order and
// effects in option order, so on a contested attribute the last writer wins.
func ApplyContext(base model.LogicTable, app model.ApplicationContext, cfg model.FamilyContextConfig) model.LogicTable {
	out := base
	out.Rules = cloneRules(base.Rules)

	// index once; it survives retyping because add_review_flag only changes
	// the LogicType, never the AttributeID
	byAttr := make(map[string]int, len(out.Rules))
	for i, r := range out.Rules {
		if _, ok := byAttr[r.AttributeID]; !ok {
			byAttr[r.AttributeID] = i
		}
	}

	for _, q := range cfg.Questions {
		answer, ok := app.Answers[q.QuestionID]
		if !ok {
			continue
		}
		opt := matchOption(q.Options, answer)
		if opt == nil {
			// freeform or unrecognized answers never apply
			continue
		}
		for _, eff := range opt.Effects {
			idx, ok := byAttr[eff.AttributeID]
			if !ok {
				// dangling attribute ids are silent no-ops
				continue
			}
			applyEffect(&out.Rules[idx], eff)
		}
	}
	return out
}

func matchOption(options []model.QuestionOption, answer string) *model.QuestionOption {
	for i := range options {
		if options[i].Value == answer {
			return &options[i]
		}
	}
	return nil
}

func applyEffect(rule *model.MatchingRule, eff model.AttributeEffect) {
	switch eff.Effect {
	case model.EffectEscalateToMandatory:
		rule.Weight = model.MaxWeight
	case model.EffectEscalateToPrimary:
		if rule.Weight < primaryWeight {
			rule.Weight = primaryWeight
		}
	case model.EffectNotApplicable:
		rule.Weight = 0
	case model.EffectAddReviewFlag:
		rule.LogicType = model.LogicApplicationReview
	case model.EffectSetThreshold:
		// annotation only: a tightened numeric bound is expected to arrive
		// as an attribute-value override upstream, never through here
	default:
		return
	}
	if eff.Note != "" {
		rule.EngineeringReason = eff.Note
	}
	if eff.BlockOnMissing {
		rule.BlockOnMissing = true
	}
}

// cloneRules copies the rule slice and the hierarchy arrays inside it, so
// the clone shares no mutable backing storage with the base table.
func cloneRules(rules []model.MatchingRule) []model.MatchingRule {
	out := make([]model.MatchingRule, len(rules))
	copy(out, rules)
	for i := range out {
		if out[i].UpgradeHierarchy != nil {
			h := make([]string, len(out[i].UpgradeHierarchy))
			copy(h, out[i].UpgradeHierarchy)
			out[i].UpgradeHierarchy = h
		}
	}
	return out
}
