package service

import (
	"sort"
	"strings"

	"crossref-service/internal/match/model"
)

// advisoryNoteLimit caps the free-text notes carried into an advisory line.
const advisoryNoteLimit = 2

// Rank evaluates every candidate against the source part under the given
// (already context-adjusted) table and returns recommendations sorted
// passed-first, then by descending match percentage. Ties keep input order.
func Rank(source model.PartAttributes, candidates []model.PartAttributes, table model.LogicTable) []model.Recommendation {
	evals := make([]model.CandidateEvaluation, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Part == source.Part {
			// a part is not a replacement for itself
			continue
		}
		evals = append(evals, EvaluateCandidate(source, cand, table))
	}

	sort.SliceStable(evals, func(i, j int) bool {
		if evals[i].Passed != evals[j].Passed {
			return evals[i].Passed
		}
		return evals[i].MatchPercentage > evals[j].MatchPercentage
	})

	recs := make([]model.Recommendation, 0, len(evals))
	for _, ev := range evals {
		recs = append(recs, model.Recommendation{
			Part:            ev.Part,
			MatchPercentage: ev.MatchPercentage,
			Passed:          ev.Passed,
			Advisory:        advisory(ev),
			ReviewFlags:     ev.ReviewFlags,
			Matches:         ev.Matches,
		})
	}
	return recs
}

// advisory assembles the human-facing summary: hard-failure warning first,
// review flags next, then up to the first two distinct notes, all joined
// with " | ".
func advisory(ev model.CandidateEvaluation) string {
	var parts []string
	if !ev.Passed {
		parts = append(parts, "Has failing attributes")
	}
	if len(ev.ReviewFlags) > 0 {
		parts = append(parts, "Needs review: "+strings.Join(ev.ReviewFlags, ", "))
	}
	seen := make(map[string]bool, advisoryNoteLimit)
	for _, n := range ev.Notes {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		parts = append(parts, n)
		if len(seen) == advisoryNoteLimit {
			break
		}
	}
	return strings.Join(parts, " | ")
}
