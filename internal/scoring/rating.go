package scoring

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	bandHigh    = 100
	bandLow     = 40
	bandDefault = 70
)

// DefaultAnswerQuality is used when a session has no rated answers.
const DefaultAnswerQuality = bandDefault

var fold = cases.Fold()

// RatingBand maps a free-text rating to a fixed score. Matching is a
// case-insensitive substring test: "good" or "excellent" score 100,
// "improvement" or "bad" score 40, and anything else, including empty text,
// scores 70.
func RatingBand(text string) int {
	folded := fold.String(text)
	switch {
	case strings.Contains(folded, "good"), strings.Contains(folded, "excellent"):
		return bandHigh
	case strings.Contains(folded, "improvement"), strings.Contains(folded, "bad"):
		return bandLow
	default:
		return bandDefault
	}
}

// AnswerQuality returns the rounded mean band over ratings, or
// DefaultAnswerQuality when there are none.
func AnswerQuality(ratings []string) int {
	if len(ratings) == 0 {
		return DefaultAnswerQuality
	}
	total := 0
	for _, rating := range ratings {
		total += RatingBand(rating)
	}
	return Round(float64(total) / float64(len(ratings)))
}
