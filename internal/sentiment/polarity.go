package sentiment

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed lexicon/polarity.tsv
var defaultPolarityLexicon string

var ErrEmptyLexicon = errors.New("polarity lexicon has no entries")

// negationFactor flips and dampens an assessment preceded by a negation.
const negationFactor = -0.5

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "nt": {}, "dont": {}, "doesnt": {},
	"didnt": {}, "isnt": {}, "wasnt": {}, "arent": {}, "werent": {}, "cant": {},
	"cannot": {}, "wont": {}, "wouldnt": {}, "shouldnt": {}, "couldnt": {},
	"hasnt": {}, "havent": {}, "hadnt": {}, "aint": {}, "neither": {}, "nor": {},
}

type lexiconEntry struct {
	polarity  float64
	intensity float64
}

func (e lexiconEntry) modifier() bool {
	return e.intensity != 1
}

// PolarityAnalyzer is a lexical polarity model: the score of a text is the
// mean polarity of the lexicon words it contains, each scaled by a preceding
// intensifier and flipped by a negation directly before it.
type PolarityAnalyzer struct {
	lexicon map[string]lexiconEntry
}

// NewPolarityAnalyzer loads the lexicon at path, or the embedded lexicon when
// path is empty.
func NewPolarityAnalyzer(path string) (*PolarityAnalyzer, error) {
	var (
		r   io.Reader
		src = "embedded"
	)
	if path == "" {
		r = strings.NewReader(defaultPolarityLexicon)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open polarity lexicon: %w", err)
		}
		defer f.Close()
		r = f
		src = path
	}

	lexicon, err := parseLexicon(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse polarity lexicon %s: %w", src, err)
	}
	return &PolarityAnalyzer{lexicon: lexicon}, nil
}

func parseLexicon(r io.Reader) (map[string]lexiconEntry, error) {
	lexicon := make(map[string]lexiconEntry)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: expected 2 or 3 tab separated fields, got %d", line, len(fields))
		}
		polarity, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad polarity: %w", line, err)
		}
		entry := lexiconEntry{polarity: polarity, intensity: 1}
		if len(fields) == 3 {
			entry.intensity, err = strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad intensity: %w", line, err)
			}
		}
		lexicon[strings.ToLower(strings.TrimSpace(fields[0]))] = entry
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lexicon) == 0 {
		return nil, ErrEmptyLexicon
	}
	return lexicon, nil
}

func (p *PolarityAnalyzer) Size() int {
	return len(p.lexicon)
}

// Polarity scores text in [-1, 1]. Text without lexicon words scores 0.
func (p *PolarityAnalyzer) Polarity(text string) float64 {
	words := strings.Fields(strings.ToLower(text))

	var (
		assessments []float64
		multiplier  = 1.0
		negated     bool
	)
	for i, w := range words {
		if _, ok := negations[w]; ok {
			negated = true
			continue
		}

		entry, ok := p.lexicon[w]
		if !ok {
			// a negation only carries across one-character words
			if len(w) > 1 {
				negated = false
			}
			continue
		}

		if entry.modifier() && i+1 < len(words) && p.modifies(words[i+1]) {
			multiplier *= entry.intensity
			continue
		}

		score := entry.polarity * multiplier
		if negated {
			score *= negationFactor
		}
		if score != 0 || !entry.modifier() {
			assessments = append(assessments, score)
		}
		multiplier = 1
		negated = false
	}

	if len(assessments) == 0 {
		return 0
	}
	var sum float64
	for _, a := range assessments {
		sum += a
	}
	return clamp(sum/float64(len(assessments)), -1, 1)
}

// modifies reports whether an intensifier may apply to the next word.
func (p *PolarityAnalyzer) modifies(next string) bool {
	_, ok := p.lexicon[next]
	return ok
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
