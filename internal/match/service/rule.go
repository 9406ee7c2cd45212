// Package service implements the substitution matching engine: rule
// evaluation, candidate scoring, replacement ranking, missing-attribute
// detection and the context-driven rule modifier. Everything here is a pure
// function over the model types; no I/O, no shared state.
package service

import (
	"fmt"
	"strings"

	"crossref-service/internal/match/model"
)

// Attribute ids with dedicated threshold semantics.
const (
	attrTolerance = "tolerance"
	attrMSL       = "msl"
)

// Degradation notes. One string per class, so identical notes collapse when
// the candidate evaluator deduplicates them for the advisory line.
const (
	noteMissingCandidate = "candidate value missing"
	noteNotComparable    = "values not comparable"
	noteNoHierarchy      = "hierarchy position undetermined"
	noteLowerTier        = "candidate is a lower tier"
	noteRequiredMissing  = "required capability missing"
	noteRangeNotCovered  = "range does not cover source"
	noteOperationalDiff  = "differs from source; verify in application"
)

// EvaluateRule applies one matching rule to an optional source and candidate
// attribute. It is total: any combination of missing or malformed values
// yields a conservative outcome, never an error.
func EvaluateRule(rule model.MatchingRule, src, cand *model.ParametricAttribute) model.RuleMatch {
	m := model.RuleMatch{
		AttributeID:   rule.AttributeID,
		AttributeName: rule.AttributeName,
		LogicType:     rule.LogicType,
	}
	if src != nil {
		m.SourceValue = src.Value
	}
	if cand != nil {
		m.CandidateValue = cand.Value
	}

	switch rule.LogicType {
	case model.LogicIdentity:
		evalIdentity(&m, src, cand)
	case model.LogicIdentityUpgrade:
		evalUpgrade(&m, rule, src, cand)
	case model.LogicIdentityFlag:
		evalFlag(&m, src, cand)
	case model.LogicThreshold:
		evalThreshold(&m, rule, rule.ThresholdDirection, src, cand)
	case model.LogicFit:
		// fit is threshold with the direction pinned to lte: the candidate
		// must not exceed the source dimension, whatever the rule says
		evalThreshold(&m, rule, model.DirectionLTE, src, cand)
	case model.LogicApplicationReview:
		// never computationally decidable
		outcome(&m, model.ResultReview, model.StatusCompatible, rule.EngineeringReason)
	case model.LogicOperational:
		evalOperational(&m)
	default:
		// unknown kinds never block
		outcome(&m, model.ResultInfo, model.StatusCompatible, "")
	}
	return m
}

func outcome(m *model.RuleMatch, result model.RuleResult, status model.MatchStatus, note string) {
	m.Result = result
	m.MatchStatus = status
	if note != "" {
		m.Note = note
	}
}

// evalIdentity: numeric equality when both sides parse as numbers, otherwise
// normalized string equality. A source without the attribute makes the rule
// inapplicable; a candidate without it fails.
func evalIdentity(m *model.RuleMatch, src, cand *model.ParametricAttribute) {
	if src == nil {
		outcome(m, model.ResultPass, model.StatusCompatible, "")
		return
	}
	if cand == nil {
		outcome(m, model.ResultFail, model.StatusDifferent, noteMissingCandidate)
		return
	}
	sn, sok := numericOf(src)
	cn, cok := numericOf(cand)
	if sok && cok {
		if sn == cn {
			outcome(m, model.ResultPass, model.StatusExact, "")
		} else {
			outcome(m, model.ResultFail, model.StatusDifferent, "")
		}
		return
	}
	if normalizeValue(src.Value) == normalizeValue(cand.Value) {
		outcome(m, model.ResultPass, model.StatusExact, "")
	} else {
		outcome(m, model.ResultFail, model.StatusDifferent, "")
	}
}

// evalUpgrade walks the rule's tier hierarchy (index 0 = best). A candidate
// on a better tier is an upgrade with full credit; a lower tier fails. When
// only one side can be located, the data is ambiguous and fails
// conservatively; when neither can, plain equality decides.
func evalUpgrade(m *model.RuleMatch, rule model.MatchingRule, src, cand *model.ParametricAttribute) {
	if src == nil {
		outcome(m, model.ResultPass, model.StatusCompatible, "")
		return
	}
	if cand == nil {
		outcome(m, model.ResultFail, model.StatusDifferent, noteMissingCandidate)
		return
	}
	si := hierarchyIndex(rule.UpgradeHierarchy, src.Value)
	ci := hierarchyIndex(rule.UpgradeHierarchy, cand.Value)
	switch {
	case si < 0 && ci < 0:
		if normalizeValue(src.Value) == normalizeValue(cand.Value) {
			outcome(m, model.ResultPass, model.StatusExact, "")
		} else {
			outcome(m, model.ResultFail, model.StatusDifferent, "")
		}
	case si < 0 || ci < 0:
		outcome(m, model.ResultFail, model.StatusDifferent, noteNoHierarchy)
	case ci == si:
		outcome(m, model.ResultPass, model.StatusExact, "")
	case ci < si:
		outcome(m, model.ResultUpgrade, model.StatusBetter,
			fmt.Sprintf("%s upgrades %s", cand.Value, src.Value))
	default:
		outcome(m, model.ResultFail, model.StatusWorse, noteLowerTier)
	}
}

// hierarchyIndex locates a value's tier by normalized substring match in
// either direction ("X7R" matches tier "X7R (±15%)"). Returns -1 when the
// value matches no tier.
func hierarchyIndex(hierarchy []string, value string) int {
	nv := normalizeValue(value)
	if nv == "" {
		return -1
	}
	for i, tier := range hierarchy {
		nt := normalizeValue(tier)
		if nt == "" {
			continue
		}
		if strings.Contains(nv, nt) || strings.Contains(nt, nv) {
			return i
		}
	}
	return -1
}

// evalFlag is one-directional: a candidate may add a capability the source
// lacks, but dropping a required one fails. Absent attributes read as false.
func evalFlag(m *model.RuleMatch, src, cand *model.ParametricAttribute) {
	srcHas := src != nil && parseBoolean(src.Value)
	candHas := cand != nil && parseBoolean(cand.Value)
	switch {
	case srcHas && !candHas:
		outcome(m, model.ResultFail, model.StatusWorse, noteRequiredMissing)
	case !srcHas && candHas:
		outcome(m, model.ResultPass, model.StatusBetter, "")
	default:
		outcome(m, model.ResultPass, model.StatusExact, "")
	}
}

// evalThreshold handles threshold and fit rules. Special cases come before
// the general numeric path: range-superset directions, then the tolerance
// and msl attributes where a smaller figure is the better part.
func evalThreshold(m *model.RuleMatch, rule model.MatchingRule, dir model.ThresholdDirection, src, cand *model.ParametricAttribute) {
	if src == nil {
		outcome(m, model.ResultPass, model.StatusCompatible, "")
		return
	}
	if cand == nil {
		// missing candidate data warrants a manual look, not a hard fail
		outcome(m, model.ResultReview, model.StatusCompatible, noteMissingCandidate)
		return
	}
	if dir == model.DirectionRangeSuperset {
		evalRangeSuperset(m, src, cand)
		return
	}
	switch rule.AttributeID {
	case attrTolerance:
		sp, sok := parseTolerance(src.Value)
		cp, cok := parseTolerance(cand.Value)
		evalLowerWins(m, sp, cp, sok && cok)
		return
	case attrMSL:
		sl, sok := parseMSL(src.Value)
		cl, cok := parseMSL(cand.Value)
		evalLowerWins(m, float64(sl), float64(cl), sok && cok)
		return
	}

	sn, sok := numericOf(src)
	cn, cok := numericOf(cand)
	if !sok || !cok {
		// not numbers on one side: compare as text and degrade any mismatch
		// to review, never to a hard fail
		if normalizeValue(src.Value) == normalizeValue(cand.Value) {
			outcome(m, model.ResultPass, model.StatusExact, "")
		} else {
			outcome(m, model.ResultReview, model.StatusDifferent, noteNotComparable)
		}
		return
	}
	if cn == sn {
		outcome(m, model.ResultPass, model.StatusExact, "")
		return
	}
	better := cn > sn
	if dir == model.DirectionLTE {
		better = cn < sn
	}
	if better {
		outcome(m, model.ResultPass, model.StatusBetter, "")
	} else {
		outcome(m, model.ResultFail, model.StatusWorse, "")
	}
}

// evalRangeSuperset passes when the candidate range contains the source
// range, exact when they coincide.
func evalRangeSuperset(m *model.RuleMatch, src, cand *model.ParametricAttribute) {
	sr, sok := parseTempRange(src.Value)
	cr, cok := parseTempRange(cand.Value)
	if !sok || !cok {
		outcome(m, model.ResultReview, model.StatusCompatible, noteNotComparable)
		return
	}
	switch {
	case cr == sr:
		outcome(m, model.ResultPass, model.StatusExact, "")
	case cr.min <= sr.min && cr.max >= sr.max:
		outcome(m, model.ResultPass, model.StatusBetter, "")
	default:
		outcome(m, model.ResultFail, model.StatusWorse, noteRangeNotCovered)
	}
}

// evalLowerWins compares ordinal specs where smaller is better (tolerance
// percent, moisture sensitivity level).
func evalLowerWins(m *model.RuleMatch, srcV, candV float64, ok bool) {
	switch {
	case !ok:
		outcome(m, model.ResultReview, model.StatusCompatible, noteNotComparable)
	case candV == srcV:
		outcome(m, model.ResultPass, model.StatusExact, "")
	case candV < srcV:
		outcome(m, model.ResultPass, model.StatusBetter, "")
	default:
		outcome(m, model.ResultFail, model.StatusWorse, "")
	}
}

// evalOperational never blocks: exact when the normalized values agree,
// otherwise an advisory difference.
func evalOperational(m *model.RuleMatch) {
	if normalizeValue(m.SourceValue) == normalizeValue(m.CandidateValue) {
		outcome(m, model.ResultInfo, model.StatusExact, "")
		return
	}
	outcome(m, model.ResultInfo, model.StatusCompatible, noteOperationalDiff)
}
