package utils

import (
	"context"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// FindClosestString returns the candidate with the smallest Levenshtein distance to s, candidates
// with more than maxDifferences differences are ignored. A nil ctx is allowed.
func FindClosestString(ctx context.Context, candidates []string, s string, maxDifferences int) (closest string, distance int, found bool) {
	runes := []rune(s)
	distance = -1

	for _, candidate := range candidates {
		if ctx != nil && ctx.Err() != nil {
			break
		}

		d := levenshtein.DistanceForStrings([]rune(candidate), runes, levenshtein.DefaultOptionsWithSub)
		if d > maxDifferences {
			continue
		}
		if distance == -1 || d < distance {
			closest = candidate
			distance = d
			found = true
		}
	}

	return
}
