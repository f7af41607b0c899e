package report

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spacesedan/senticlouds/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribution(t *testing.T) {
	tests := []struct {
		name   string
		counts map[models.SentimentLabel]int
		want   []LabelCount
	}{
		{
			name:   "ordered by count",
			counts: map[models.SentimentLabel]int{models.Positive: 1, models.Negative: 5, models.Neutral: 3},
			want:   []LabelCount{{models.Negative, 5}, {models.Neutral, 3}, {models.Positive, 1}},
		},
		{
			name:   "ties keep label order",
			counts: map[models.SentimentLabel]int{models.Neutral: 2, models.Negative: 2},
			want:   []LabelCount{{models.Negative, 2}, {models.Neutral, 2}, {models.Positive, 0}},
		},
		{
			name:   "empty",
			counts: nil,
			want:   []LabelCount{{models.Positive, 0}, {models.Negative, 0}, {models.Neutral, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Distribution(tt.counts)); diff != "" {
				t.Errorf("distribution mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDistributionTable(t *testing.T) {
	out := DistributionTable(map[models.SentimentLabel]int{models.Positive: 7, models.Neutral: 12})

	assert.Contains(t, out, "Sentiment")
	assert.Contains(t, out, "Count")
	neutral := strings.Index(out, "Neutral")
	positive := strings.Index(out, "Positive")
	negative := strings.Index(out, "Negative")
	require.True(t, neutral >= 0 && positive >= 0 && negative >= 0)
	assert.Less(t, neutral, positive)
	assert.Less(t, positive, negative)
}

func TestMarkdownAndHTML(t *testing.T) {
	s := Summary{
		RunID:  "run-1",
		Input:  "reviews.csv",
		Column: "review",
		Rows:   4,
		Counts: map[models.SentimentLabel]int{models.Positive: 3, models.Neutral: 1},
		Images: []Image{
			{Label: models.Positive, Path: "positive_wordcloud.png"},
			{Label: models.Negative, Path: "negative_wordcloud.png", Placeholder: true},
			{Label: models.Neutral, Skipped: true},
		},
		Panel: "sentiment_wordclouds.png",
	}

	md := Markdown(s)
	assert.Contains(t, md, "- Text column: `review`")
	assert.Contains(t, md, "| Positive | 3 | 75.0% |")
	assert.Contains(t, md, "![Positive word cloud](positive_wordcloud.png)")
	assert.Contains(t, md, "No Negative texts.")
	assert.Contains(t, md, "No Neutral texts, image skipped.")
	assert.NotContains(t, md, "![Neutral word cloud]")

	html := string(HTML(md))
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, `<img src="positive_wordcloud.png" alt="Positive word cloud"`)
	assert.Contains(t, html, `<img src="sentiment_wordclouds.png"`)
}

func TestMarkdown_NoRows(t *testing.T) {
	md := Markdown(Summary{RunID: "r", Input: "empty.csv", Column: "a"})
	assert.Contains(t, md, "| Positive | 0 | 0.0% |")
	assert.NotContains(t, md, "## Overview")
}
