package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrTextColumnFixed = errors.New("text column already selected")

// Record is one row of the source table. Derived fields are filled in by the
// pipeline stages, one stage at a time.
type Record struct {
	Cells []Cell

	CleanText  string
	Polarity   float64
	VaderScore float64
	Sentiment  SentimentLabel
}

// ColumnKind is the type a column is read as as a whole. A single text value
// makes the column ColumnObject. Otherwise whole numbers without gaps make it
// ColumnInt and anything else numeric ColumnFloat.
type ColumnKind int

const (
	ColumnObject ColumnKind = iota
	ColumnInt
	ColumnFloat
)

func InferColumnKind(cells []Cell) ColumnKind {
	kind := ColumnInt
	for _, c := range cells {
		switch c.Kind {
		case CellText:
			return ColumnObject
		case CellMissing:
			kind = ColumnFloat
		case CellNumber:
			if _, err := strconv.ParseInt(strings.TrimSpace(c.Raw), 10, 64); err != nil {
				kind = ColumnFloat
			}
		}
	}
	if len(cells) == 0 {
		return ColumnObject
	}
	return kind
}

type Table struct {
	Columns []string
	Records []*Record

	textColumn int
	textKind   ColumnKind
	textBound  bool
}

func NewTable(columns []string) *Table {
	return &Table{Columns: columns, textColumn: -1}
}

func (t *Table) AddRow(cells []Cell) {
	t.Records = append(t.Records, &Record{Cells: cells})
}

func (t *Table) Len() int {
	return len(t.Records)
}

// Column returns every cell of column i in row order.
func (t *Table) Column(i int) []Cell {
	out := make([]Cell, 0, len(t.Records))
	for _, r := range t.Records {
		if i < len(r.Cells) {
			out = append(out, r.Cells[i])
		} else {
			out = append(out, MissingCell())
		}
	}
	return out
}

// ColumnText renders every cell of column i as text according to the kind of
// the column.
func (t *Table) ColumnText(i int) []string {
	cells := t.Column(i)
	kind := InferColumnKind(cells)
	out := make([]string, len(cells))
	for j, c := range cells {
		out[j] = c.Render(kind)
	}
	return out
}

func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// SetTextColumn binds the free-text column. The binding is fixed for the rest
// of the run: rebinding to a different column fails.
func (t *Table) SetTextColumn(i int) error {
	if i < 0 || i >= len(t.Columns) {
		return fmt.Errorf("text column index %d out of range [0,%d)", i, len(t.Columns))
	}
	if t.textBound && t.textColumn != i {
		return fmt.Errorf("%w: %q", ErrTextColumnFixed, t.Columns[t.textColumn])
	}
	if !t.textBound {
		t.textKind = InferColumnKind(t.Column(i))
	}
	t.textColumn = i
	t.textBound = true
	return nil
}

// TextColumn returns the bound column index, or -1 before selection.
func (t *Table) TextColumn() int {
	if !t.textBound {
		return -1
	}
	return t.textColumn
}

func (t *Table) TextColumnName() string {
	if !t.textBound {
		return ""
	}
	return t.Columns[t.textColumn]
}

// Text returns the text of the bound column for a record, rendered as in
// ColumnText.
func (t *Table) Text(r *Record) string {
	if !t.textBound || t.textColumn >= len(r.Cells) {
		return MissingText
	}
	return r.Cells[t.textColumn].Render(t.textKind)
}
