package fileio

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"crossref-service/internal/match/model"
	"crossref-service/internal/utils"
)

var rxNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// ToParts converts sheet rows into part attribute sets. partColumn names the
// part-number column and may be approximate or list "|" alternatives, since
// vendor exports label the column "MPN", "Mfr Part #", "Part Number" and so
// on. An empty partColumn takes the first column. Every other column becomes
// a parameter in sheet order; cells that are one clean number also get
// NumericValue prefilled.
func (s *Sheet) ToParts(partColumn string) ([]model.PartAttributes, error) {
	if len(s.Headers) == 0 {
		return nil, errors.New("sheet has no header row")
	}
	partKey := s.resolveColumn(partColumn)
	if partKey == "" {
		return nil, fmt.Errorf("part column %q not found", partColumn)
	}

	parts := make([]model.PartAttributes, 0, len(s.Rows))
	for _, row := range s.Rows {
		part := strings.TrimSpace(row[partKey])
		if part == "" {
			continue
		}
		pa := model.PartAttributes{Part: part}
		order := 0
		for _, h := range s.Headers {
			if h == partKey {
				continue
			}
			val := strings.TrimSpace(row[h])
			if val == "" {
				continue
			}
			attr := model.ParametricAttribute{
				ParameterID:   slugify(h),
				ParameterName: h,
				Value:         val,
				SortOrder:     order,
			}
			if f, ok := utils.ParseFloatLoose(val); ok {
				attr.NumericValue = &f
			}
			pa.Parameters = append(pa.Parameters, attr)
			order++
		}
		parts = append(parts, pa)
	}
	return parts, nil
}

// resolveColumn maps a wanted column name onto a real header. The name may
// carry "|"-separated alternatives ("mpn|part number"); resolution tries
// exact matches first, then normalized equality, then containment either way
// with the longest overlap winning.
func (s *Sheet) resolveColumn(want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return s.Headers[0]
	}

	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		for _, h := range s.Headers {
			if h == a {
				return h
			}
		}
	}

	var norms []string
	for _, a := range alts {
		if n := normHeaderKey(a); n != "" {
			norms = append(norms, n)
		}
	}
	for _, h := range s.Headers {
		nh := normHeaderKey(h)
		for _, n := range norms {
			if nh == n {
				return h
			}
		}
	}

	best, bestScore := "", 0
	for _, h := range s.Headers {
		nh := normHeaderKey(h)
		if nh == "" {
			continue
		}
		for _, n := range norms {
			if !strings.Contains(nh, n) && !strings.Contains(n, nh) {
				continue
			}
			score := len(nh)
			if len(n) < score {
				score = len(n)
			}
			if score > bestScore {
				best, bestScore = h, score
			}
		}
	}
	return best
}

// normHeaderKey lowercases a header and squashes every non-alphanumeric run
// to a single space.
func normHeaderKey(s string) string {
	s = rxNonAlnum.ReplaceAllString(strings.ToLower(s), " ")
	return strings.Join(strings.Fields(s), " ")
}

// slugify turns a header into a parameter id: "Voltage - Rated" becomes
// "voltage_rated".
func slugify(s string) string {
	return strings.ReplaceAll(normHeaderKey(s), " ", "_")
}
