package writer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spacesedan/senticlouds/internal/models"
)

var ErrOutputExists = errors.New("output file already exists")

// DerivedColumns are appended to the original header of the results table.
var DerivedColumns = []string{"clean_text", "polarity", "vader_score", "sentiment"}

type Writer struct {
	overwrite bool
}

func New(overwrite bool) *Writer {
	return &Writer{overwrite: overwrite}
}

// Preflight verifies that every path may be written under the overwrite
// policy. It runs before any processing so a refused run leaves no output.
func (w *Writer) Preflight(paths []string) error {
	if w.overwrite {
		return nil
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check output %s: %w", p, err)
		}
	}
	if len(existing) > 0 {
		return fmt.Errorf("%w: %s", ErrOutputExists, strings.Join(existing, ", "))
	}
	return nil
}

func (w *Writer) create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory for %s: %w", path, err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !w.overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

func (w *Writer) WritePNG(path string, img image.Image) (err error) {
	f, err := w.create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	buf := bufio.NewWriter(f)
	if err := png.Encode(buf, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Info("[Writer] Saved image", slog.String("path", path))
	return nil
}

func (w *Writer) WriteReport(path string, html []byte) (err error) {
	f, err := w.create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if _, err := f.Write(html); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	slog.Info("[Writer] Saved report", slog.String("path", path))
	return nil
}

// WriteTable writes the original columns followed by DerivedColumns, one line
// per record in input order.
func (w *Writer) WriteTable(path string, t *models.Table) (err error) {
	f, err := w.create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := EncodeTable(f, t); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Info("[Writer] Saved results table",
		slog.String("path", path),
		slog.Int("rows", t.Len()))
	return nil
}

// EncodeTable writes t as CSV to out.
func EncodeTable(out io.Writer, t *models.Table) error {
	cw := csv.NewWriter(out)

	header := make([]string, 0, len(t.Columns)+len(DerivedColumns))
	header = append(header, t.Columns...)
	header = append(header, DerivedColumns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, r := range t.Records {
		for i := range t.Columns {
			row[i] = ""
			if i < len(r.Cells) && !r.Cells[i].IsMissing() {
				row[i] = r.Cells[i].Raw
			}
		}
		n := len(t.Columns)
		row[n] = r.CleanText
		row[n+1] = FormatFloat(r.Polarity)
		row[n+2] = FormatFloat(r.VaderScore)
		row[n+3] = r.Sentiment.String()
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatFloat renders a derived score. NaN is written as an empty field.
func FormatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return models.FormatFloat(f)
}
