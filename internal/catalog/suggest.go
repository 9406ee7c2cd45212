package catalog

import "strings"

// an id further away than this is not worth suggesting
const maxSuggestDistance = 3

// Suggest returns the closest known family id for a "did you mean" hint on
// unknown ids, or "" when nothing is close enough.
func (c *Catalog) Suggest(familyID string) string {
	probe := strings.ToLower(strings.TrimSpace(familyID))
	if probe == "" {
		return ""
	}
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, id := range c.ids {
		if d := damerauLevenshtein(probe, id); d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// damerauLevenshtein is the edit distance with adjacent transpositions, so
// "mlc" and "mlcc" or a swapped pair land within suggestion range.
func damerauLevenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	al, bl := len(ra), len(rb)

	dp := make([][]int, al+1)
	for i := 0; i <= al; i++ {
		dp[i] = make([]int, bl+1)
		dp[i][0] = i
	}
	for j := 0; j <= bl; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= al; i++ {
		for j := 1; j <= bl; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			// insert / delete / substitute
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)

			// transpose adjacent runes
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if v := dp[i-2][j-2] + 1; v < dp[i][j] {
					dp[i][j] = v
				}
			}
		}
	}
	return dp[al][bl]
}
