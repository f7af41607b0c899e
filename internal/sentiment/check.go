package sentiment

import (
	"errors"
	"fmt"
	"log/slog"
)

var ErrLexiconUnavailable = errors.New("sentiment lexicon unavailable")

const (
	samplePositive = "this is good and i love it"
	sampleNegative = "this is bad and i hate it"
)

// Scorers bundles the two per-row scoring resources.
type Scorers struct {
	Polarity *PolarityAnalyzer
	Vader    *VaderAnalyzer
}

// LoadScorers builds both analyzers and checks that their lexicons actually
// score known phrases before any row is processed. Any failure wraps
// ErrLexiconUnavailable.
func LoadScorers(polarityLexicon string) (*Scorers, error) {
	polarity, err := NewPolarityAnalyzer(polarityLexicon)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLexiconUnavailable, err)
	}
	s := &Scorers{Polarity: polarity, Vader: NewVaderAnalyzer()}

	if err := s.Check(); err != nil {
		return nil, err
	}

	slog.Info("[Sentiment] Lexicons ready",
		slog.Int("polarity_entries", polarity.Size()))
	return s, nil
}

// Check runs both scorers on a clearly positive and a clearly negative
// phrase.
func (s *Scorers) Check() error {
	if s.Polarity == nil || s.Vader == nil {
		return fmt.Errorf("%w: scorer not initialized", ErrLexiconUnavailable)
	}
	if p, n := s.Vader.Compound(samplePositive), s.Vader.Compound(sampleNegative); p <= 0 || n >= 0 {
		return fmt.Errorf("%w: vader check scored %.3f/%.3f", ErrLexiconUnavailable, p, n)
	}
	if p, n := s.Polarity.Polarity(samplePositive), s.Polarity.Polarity(sampleNegative); p <= 0 || n >= 0 {
		return fmt.Errorf("%w: polarity check scored %.3f/%.3f", ErrLexiconUnavailable, p, n)
	}
	return nil
}

// Score is the derived sentiment of one cleaned text.
type Score struct {
	Polarity   float64
	VaderScore float64
}

func (s *Scorers) Score(cleanText string) Score {
	return Score{
		Polarity:   s.Polarity.Polarity(cleanText),
		VaderScore: s.Vader.Compound(cleanText),
	}
}
