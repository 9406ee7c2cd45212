package service

import (
	"math"

	"crossref-service/internal/match/model"
)

// EvaluateCandidate folds every rule of the table, in table order, into a
// score and verdict for one (source, candidate) pair. Passed is a gate: one
// hard fail on a decidable rule forces it false no matter how high the match
// percentage lands.
func EvaluateCandidate(source, candidate model.PartAttributes, table model.LogicTable) model.CandidateEvaluation {
	srcParams := parameterMap(source)
	candParams := parameterMap(candidate)

	ev := model.CandidateEvaluation{
		Part:    candidate.Part,
		Matches: make([]model.RuleMatch, 0, len(table.Rules)),
	}

	var earned float64
	total := 0
	hardFailure := false

	for _, rule := range table.Rules {
		m := EvaluateRule(rule, srcParams[rule.AttributeID], candParams[rule.AttributeID])
		ev.Matches = append(ev.Matches, m)

		total += rule.Weight
		w := float64(rule.Weight)
		switch rule.LogicType {
		case model.LogicApplicationReview:
			// a human still has to look; half credit regardless of outcome
			earned += 0.5 * w
		case model.LogicOperational:
			if m.MatchStatus == model.StatusExact {
				earned += w
			} else {
				earned += 0.8 * w
			}
		default:
			switch m.Result {
			case model.ResultPass, model.ResultUpgrade:
				earned += w
			case model.ResultReview:
				earned += 0.5 * w
			case model.ResultFail:
				hardFailure = true
			}
		}

		if m.Result == model.ResultReview {
			ev.ReviewFlags = append(ev.ReviewFlags, rule.AttributeName)
		}
		if m.Note != "" {
			ev.Notes = append(ev.Notes, m.Note)
		}
	}

	ev.EarnedWeight = earned
	ev.TotalWeight = total
	if total > 0 {
		ev.MatchPercentage = int(math.Round(100 * earned / float64(total)))
	}
	ev.Passed = !hardFailure
	return ev
}

// parameterMap indexes a part's attributes by ParameterID; the first
// occurrence wins on duplicates.
func parameterMap(part model.PartAttributes) map[string]*model.ParametricAttribute {
	m := make(map[string]*model.ParametricAttribute, len(part.Parameters))
	for i := range part.Parameters {
		p := &part.Parameters[i]
		if _, ok := m[p.ParameterID]; !ok {
			m[p.ParameterID] = p
		}
	}
	return m
}
