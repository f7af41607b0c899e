package models

import "strings"

type SentimentLabel string

const (
	Positive SentimentLabel = "Positive"
	Negative SentimentLabel = "Negative"
	Neutral  SentimentLabel = "Neutral"
)

// Labels lists every label in reporting order.
var Labels = []SentimentLabel{Positive, Negative, Neutral}

func (l SentimentLabel) String() string {
	return string(l)
}

func (l SentimentLabel) Valid() bool {
	switch l {
	case Positive, Negative, Neutral:
		return true
	default:
		return false
	}
}

// Corpus is every cleaned text that shares one label, joined by single spaces.
type Corpus struct {
	Label SentimentLabel
	Text  string
	Rows  int
}

func (c Corpus) Empty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// BuildCorpora groups the cleaned text of a labeled table. One corpus is
// returned per label in Labels order, including labels with no rows.
func BuildCorpora(t *Table) []Corpus {
	parts := make(map[SentimentLabel][]string, len(Labels))
	for _, r := range t.Records {
		parts[r.Sentiment] = append(parts[r.Sentiment], r.CleanText)
	}

	corpora := make([]Corpus, 0, len(Labels))
	for _, label := range Labels {
		corpora = append(corpora, Corpus{
			Label: label,
			Text:  strings.Join(parts[label], " "),
			Rows:  len(parts[label]),
		})
	}
	return corpora
}

// CountLabels tallies how many records carry each label.
func CountLabels(t *Table) map[SentimentLabel]int {
	counts := make(map[SentimentLabel]int, len(Labels))
	for _, r := range t.Records {
		counts[r.Sentiment]++
	}
	return counts
}
