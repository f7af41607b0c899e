package selector

import (
	"errors"
	"log/slog"
	"sort"
	"unicode/utf8"

	"github.com/spacesedan/senticlouds/internal/models"
	"gonum.org/v1/gonum/stat"
)

var ErrNoColumns = errors.New("table has no columns")

// ColumnScore is a column's mean text length, the signal used to guess which
// column holds free text.
type ColumnScore struct {
	Index      int
	Name       string
	MeanLength float64
}

// Rank scores every column by the mean character length of its values rendered
// as text, longest first. Numeric columns are measured as printed, so "1e3" in
// a float column counts as "1000.0". Ties keep column order.
func Rank(t *models.Table) []ColumnScore {
	scores := make([]ColumnScore, 0, len(t.Columns))
	for i, name := range t.Columns {
		scores = append(scores, ColumnScore{
			Index:      i,
			Name:       name,
			MeanLength: meanLength(t.ColumnText(i)),
		})
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].MeanLength > scores[b].MeanLength
	})
	return scores
}

// Select returns the highest ranked column. It never reports a wrong guess: a
// table without a real text column still yields its longest column.
func Select(t *models.Table) (ColumnScore, error) {
	if len(t.Columns) == 0 {
		return ColumnScore{}, ErrNoColumns
	}

	ranked := Rank(t)
	best := ranked[0]
	for _, s := range ranked {
		slog.Debug("[Selector] Column score",
			slog.String("column", s.Name),
			slog.Float64("mean_length", s.MeanLength))
	}
	return best, nil
}

// SelectAndBind selects the text column and fixes it on the table.
func SelectAndBind(t *models.Table) (ColumnScore, error) {
	best, err := Select(t)
	if err != nil {
		return ColumnScore{}, err
	}
	if err := t.SetTextColumn(best.Index); err != nil {
		return ColumnScore{}, err
	}
	return best, nil
}

func meanLength(values []string) float64 {
	if len(values) == 0 {
		return 0
	}
	lengths := make([]float64, len(values))
	for i, v := range values {
		lengths[i] = float64(utf8.RuneCountInString(v))
	}
	return stat.Mean(lengths, nil)
}
