package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/senticlouds/internal/models"
)

type LabelCount struct {
	Label models.SentimentLabel
	Count int
}

// Image describes one written cloud. Path is relative to the report.
type Image struct {
	Label       models.SentimentLabel
	Path        string
	Placeholder bool
	Skipped     bool
}

type Summary struct {
	RunID  string
	Input  string
	Column string
	Rows   int
	Counts map[models.SentimentLabel]int
	Images []Image
	Panel  string
}

// Distribution orders the label counts by count, highest first. Equal counts
// keep label order. Labels without rows are listed with 0.
func Distribution(counts map[models.SentimentLabel]int) []LabelCount {
	out := make([]LabelCount, 0, len(models.Labels))
	for _, label := range models.Labels {
		out = append(out, LabelCount{Label: label, Count: counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	countStyle  = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// DistributionTable renders the sentiment distribution for the console.
func DistributionTable(counts map[models.SentimentLabel]int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Sentiment", "Count").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return countStyle
			default:
				return cellStyle
			}
		})

	for _, lc := range Distribution(counts) {
		t.Row(lc.Label.String(), strconv.Itoa(lc.Count))
	}
	return t.String()
}

// Markdown renders the run summary as a markdown document.
func Markdown(s Summary) string {
	var b strings.Builder

	b.WriteString("# Sentiment word clouds\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", s.RunID)
	fmt.Fprintf(&b, "- Input: `%s`\n", s.Input)
	fmt.Fprintf(&b, "- Text column: `%s`\n", s.Column)
	fmt.Fprintf(&b, "- Rows: %d\n\n", s.Rows)

	b.WriteString("## Distribution\n\n")
	b.WriteString("| Sentiment | Count | Share |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, lc := range Distribution(s.Counts) {
		share := 0.0
		if s.Rows > 0 {
			share = 100 * float64(lc.Count) / float64(s.Rows)
		}
		fmt.Fprintf(&b, "| %s | %d | %.1f%% |\n", lc.Label, lc.Count, share)
	}

	b.WriteString("\n## Word clouds\n")
	for _, img := range s.Images {
		fmt.Fprintf(&b, "\n### %s\n\n", img.Label)
		switch {
		case img.Skipped:
			fmt.Fprintf(&b, "No %s texts, image skipped.\n", img.Label)
		default:
			fmt.Fprintf(&b, "![%s word cloud](%s)\n", img.Label, img.Path)
			if img.Placeholder {
				fmt.Fprintf(&b, "\nNo %s texts.\n", img.Label)
			}
		}
	}

	if s.Panel != "" {
		fmt.Fprintf(&b, "\n## Overview\n\n![Sentiment word clouds](%s)\n", s.Panel)
	}
	return b.String()
}

// HTML converts markdown into a standalone HTML page.
func HTML(md string) []byte {
	body := blackfriday.Run([]byte(md), blackfriday.WithExtensions(blackfriday.CommonExtensions))

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Sentiment word clouds</title>\n</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}
