package sentiment

import (
	"github.com/jonreiter/govader"
)

// VaderAnalyzer produces the rule-based compound score in [-1, 1]. The VADER
// lexicon ships inside govader, so building one never touches the network.
type VaderAnalyzer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderAnalyzer) Compound(text string) float64 {
	if text == "" {
		return 0
	}
	return v.analyzer.PolarityScores(text).Compound
}
