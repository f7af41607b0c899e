package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spacesedan/senticlouds/internal/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrInputNotFound = errors.New("input file not found")
	ErrDecode        = errors.New("input is not valid UTF-8")
	ErrEmptyInput    = errors.New("input has no header row")
	ErrRaggedRow     = errors.New("row has more fields than the header")
)

type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
)

type Options struct {
	// Delimiter overrides the detected field separator for delimited text.
	// Zero means detect.
	Delimiter rune
}

// Load reads the table at path. Delimited text (CSV, TSV) and XLSX workbooks
// are supported; the format is sniffed from the file content.
func Load(ctx context.Context, path string, opts Options) (*models.Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrInputNotFound, path, err)
		}
		return nil, fmt.Errorf("failed to stat input %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, delim := detect(path)
	if opts.Delimiter != 0 {
		delim = opts.Delimiter
	}

	slog.Debug("[Loader] Detected input format",
		slog.String("path", path),
		slog.Int("format", int(format)),
		slog.String("delimiter", string(delim)))

	var (
		table *models.Table
		err   error
	)
	switch format {
	case FormatXLSX:
		table, err = loadXLSX(path)
	default:
		table, err = loadDelimited(path, delim)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("[Loader] Loaded dataset",
		slog.String("path", path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)))
	return table, nil
}

// detect picks the reader for path from its content, falling back to the file
// extension when the content is ambiguous.
func detect(path string) (Format, rune) {
	ext := strings.ToLower(filepath.Ext(path))

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		slog.Warn("[Loader] Failed to detect MIME type, using extension",
			slog.String("path", path),
			slog.String("error", err.Error()))
	} else {
		switch {
		case mtype.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"):
			return FormatXLSX, 0
		case mtype.Is("text/tab-separated-values"):
			return FormatCSV, '\t'
		}
	}

	switch ext {
	case ".xlsx":
		return FormatXLSX, 0
	case ".tsv", ".tab":
		return FormatCSV, '\t'
	default:
		return FormatCSV, ','
	}
}

func loadDelimited(path string, delim rune) (*models.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: %s", ErrDecode, path)
	}

	decoded := transform.NewReader(bytes.NewReader(raw), unicode.UTF8BOM.NewDecoder())
	return ReadDelimited(decoded, delim)
}

// ReadDelimited parses delimited text with a header row.
func ReadDelimited(r io.Reader, delim rune) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table := models.NewTable(normalizeHeader(header))
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		cells, err := toCells(fields, len(table.Columns))
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		table.AddRow(cells)
	}
	return table, nil
}

func loadXLSX(path string) (*models.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrEmptyInput, path)
	}
	if len(sheets) > 1 {
		slog.Warn("[Loader] Workbook has several sheets, reading the first",
			slog.String("sheet", sheets[0]),
			slog.Int("sheets", len(sheets)))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	table := models.NewTable(normalizeHeader(rows[0]))
	for i, row := range rows[1:] {
		cells, err := toCells(row, len(table.Columns))
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", sheets[0], i+2, err)
		}
		table.AddRow(cells)
	}
	return table, nil
}

func toCells(fields []string, width int) ([]models.Cell, error) {
	if len(fields) > width {
		return nil, fmt.Errorf("%w: got %d fields, expected %d", ErrRaggedRow, len(fields), width)
	}
	cells := make([]models.Cell, width)
	for i := range cells {
		if i < len(fields) {
			cells[i] = models.ParseCell(fields[i])
		} else {
			cells[i] = models.MissingCell()
		}
	}
	return cells, nil
}

// normalizeHeader names blank columns "Unnamed: i" and suffixes repeated
// names with .1, .2, ...
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		candidate := name
		if _, dup := seen[candidate]; dup {
			for n := seen[name] + 1; ; n++ {
				candidate = name + "." + strconv.Itoa(n)
				if _, taken := seen[candidate]; !taken {
					seen[name] = n
					break
				}
			}
		}
		seen[candidate] = 0
		out[i] = candidate
	}
	return out
}
