package sentiment

import "github.com/spacesedan/senticlouds/internal/models"

const (
	PositiveThreshold = 0.25
	NegativeThreshold = -0.25
)

// Label maps a compound score to a sentiment label. Scores at or beyond a
// threshold take that side; everything between, and NaN, is neutral.
func Label(score float64) models.SentimentLabel {
	switch {
	case score >= PositiveThreshold:
		return models.Positive
	case score <= NegativeThreshold:
		return models.Negative
	default:
		return models.Neutral
	}
}
