package service

import (
	"sort"

	"crossref-service/internal/match/model"
)

// MissingAttributes returns the rules the part carries no data for, heaviest
// first (table order on equal weight). Review-only and operational rules are
// skipped: they run without a parametric value.
func MissingAttributes(part model.PartAttributes, table model.LogicTable) []model.MissingAttributeInfo {
	have := make(map[string]bool, len(part.Parameters))
	for _, p := range part.Parameters {
		have[p.ParameterID] = true
	}

	var out []model.MissingAttributeInfo
	for _, rule := range table.Rules {
		if rule.LogicType == model.LogicApplicationReview || rule.LogicType == model.LogicOperational {
			continue
		}
		if have[rule.AttributeID] {
			continue
		}
		out = append(out, model.MissingAttributeInfo{
			AttributeID:       rule.AttributeID,
			AttributeName:     rule.AttributeName,
			Weight:            rule.Weight,
			EngineeringReason: rule.EngineeringReason,
			BlockOnMissing:    rule.BlockOnMissing,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}
