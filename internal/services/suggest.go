package services

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"pocketledger/internal/models"
)

// maxSuggestDistance bounds how different a suggestion may be from the input.
const maxSuggestDistance = 3

// suggestCategory returns the existing category name closest to name, or ""
// when nothing is close. Comparison ignores case so "food" suggests "Food".
func suggestCategory(name string, categories []models.Category) string {
	needle := strings.ToLower(strings.TrimSpace(name))
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range categories {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c.Name))
		if d < bestDist || (d == bestDist && c.Name < best) {
			best, bestDist = c.Name, d
		}
	}
	if bestDist > maxSuggestDistance {
		return ""
	}
	return best
}
