package models

import (
	"math"
	"strconv"
	"strings"
)

type CellKind int

const (
	CellMissing CellKind = iota
	CellText
	CellNumber
)

// Cell is a single loaded value. Raw keeps the text exactly as it was read so
// the output table can reproduce it unchanged.
type Cell struct {
	Kind   CellKind
	Raw    string
	Number float64
}

// MissingText is what a missing cell coerces to, the same token a NaN prints as.
const MissingText = "nan"

// naValues are the tokens read as missing, matching the usual dataframe
// defaults.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// ParseCell classifies a raw field as Missing, Number or Text.
func ParseCell(raw string) Cell {
	if _, ok := naValues[raw]; ok {
		return Cell{Kind: CellMissing}
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return Cell{Kind: CellNumber, Raw: raw, Number: n}
	}
	return Cell{Kind: CellText, Raw: raw}
}

func TextCell(s string) Cell {
	return Cell{Kind: CellText, Raw: s}
}

func MissingCell() Cell {
	return Cell{Kind: CellMissing}
}

// String is the explicit text coercion used by the column selector and the
// cleaner.
func (c Cell) String() string {
	if c.Kind == CellMissing {
		return MissingText
	}
	return c.Raw
}

func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// Render is the text of c as a value of a column of the given kind: whole
// number columns drop signs and leading zeros, float columns print every
// value the way a float prints ("1e3" is "1000.0").
func (c Cell) Render(kind ColumnKind) string {
	switch {
	case c.Kind == CellMissing:
		return MissingText
	case c.Kind != CellNumber:
		return c.Raw
	}

	switch kind {
	case ColumnInt:
		if n, err := strconv.ParseInt(strings.TrimSpace(c.Raw), 10, 64); err == nil {
			return strconv.FormatInt(n, 10)
		}
		return FormatFloat(c.Number)
	case ColumnFloat:
		return FormatFloat(c.Number)
	default:
		return c.Raw
	}
}

// FormatFloat prints f in its shortest round-tripping form. Whole numbers keep
// a trailing ".0", and exponent notation is used below 1e-4 and from 1e16 up.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return MissingText
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	e := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(e, "e")
	sign := ""
	if strings.HasPrefix(mantissa, "-") {
		sign, mantissa = "-", mantissa[1:]
	}
	digits := strings.Replace(mantissa, ".", "", 1)
	x, _ := strconv.Atoi(exp)
	point := x + 1

	switch {
	case point <= -4 || point > 16:
		return e
	case point <= 0:
		return sign + "0." + strings.Repeat("0", -point) + digits
	case point >= len(digits):
		return sign + digits + strings.Repeat("0", point-len(digits)) + ".0"
	default:
		return sign + digits[:point] + "." + digits[point:]
	}
}
