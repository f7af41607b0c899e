package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spacesedan/senticlouds/config"
	"github.com/spacesedan/senticlouds/internal/loader"
	"github.com/spacesedan/senticlouds/internal/models"
	"github.com/spacesedan/senticlouds/internal/report"
	"github.com/spacesedan/senticlouds/internal/selector"
	"github.com/spacesedan/senticlouds/internal/sentiment"
	"github.com/spacesedan/senticlouds/internal/utils"
	"github.com/spacesedan/senticlouds/internal/wordcloud"
	"github.com/spacesedan/senticlouds/internal/writer"
)

// Result describes a finished run.
type Result struct {
	RunID  string
	Table  *models.Table
	Column selector.ColumnScore
	Counts map[models.SentimentLabel]int
	// Images holds one entry per label in models.Labels order; skipped labels
	// are nil.
	Images []*wordcloud.Image
	// Outputs lists every file written, in write order.
	Outputs []string
}

type run struct {
	cfg      *config.Config
	writer   *writer.Writer
	scorers  *sentiment.Scorers
	renderer *wordcloud.Renderer
	result   *Result
}

// Run executes the analysis described by cfg: load, select the text column,
// clean, score and label every row, render one cloud per label and write the
// outputs. ctx is checked between stages and between row batches.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	r := &run{
		cfg:    cfg,
		writer: writer.New(cfg.Overwrite),
		result: &Result{RunID: uuid.NewString()},
	}

	slog.Info("[Pipeline] Starting run",
		slog.String("run_id", r.result.RunID),
		slog.String("input", cfg.Input))

	if err := r.preflight(); err != nil {
		return nil, err
	}
	defer r.renderer.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := loader.Load(ctx, cfg.Input, loader.Options{Delimiter: cfg.Delim()})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfg.Input, err)
	}
	r.result.Table = table

	column, err := selector.SelectAndBind(table)
	if err != nil {
		return nil, fmt.Errorf("failed to select text column: %w", err)
	}
	r.result.Column = column
	slog.Info("[Pipeline] Selected text column",
		slog.String("column", column.Name),
		slog.Float64("mean_length", column.MeanLength))

	if err := r.score(ctx, table); err != nil {
		return nil, err
	}

	r.result.Counts = models.CountLabels(table)
	for _, label := range models.Labels {
		slog.Info("[Pipeline] Sentiment distribution",
			slog.String("label", label.String()),
			slog.Int("count", r.result.Counts[label]))
	}

	if err := r.render(ctx, models.BuildCorpora(table)); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.write(); err != nil {
		return nil, err
	}

	slog.Info("[Pipeline] Run complete",
		slog.String("run_id", r.result.RunID),
		slog.Int("rows", table.Len()),
		slog.Int("outputs", len(r.result.Outputs)))
	return r.result, nil
}

// preflight fails fast on anything that would stop the run after work has
// been done: the overwrite policy, the lexicons and the renderer settings.
func (r *run) preflight() error {
	if err := r.writer.Preflight(r.cfg.OutputPaths()); err != nil {
		slog.Error("[Pipeline] Output check failed", slog.String("error", err.Error()))
		return err
	}

	scorers, err := sentiment.LoadScorers(r.cfg.PolarityLexicon)
	if err != nil {
		slog.Error("[Pipeline] Lexicon check failed", slog.String("error", err.Error()))
		return err
	}
	r.scorers = scorers

	opts, err := RenderOptions(r.cfg.WordCloud)
	if err != nil {
		return err
	}
	renderer, err := wordcloud.NewRenderer(opts)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	r.renderer = renderer
	return nil
}

// RenderOptions maps the word cloud settings onto renderer options.
func RenderOptions(c config.WordCloudConfig) (wordcloud.Options, error) {
	opts := wordcloud.DefaultOptions()
	bg, err := wordcloud.ParseColor(c.Background)
	if err != nil {
		return opts, fmt.Errorf("invalid word cloud background: %w", err)
	}
	opts.Width = c.Width
	opts.Height = c.Height
	opts.Background = bg
	opts.MaxWords = c.MaxWords
	opts.MinFontSize = c.MinFontSize
	opts.MaxFontSize = c.FontSizeMax()
	opts.PreferHorizontal = c.PreferHorizontal
	opts.RelativeScaling = c.RelativeScaling
	opts.Seed = c.Seed
	opts.MinWordLength = c.MinWordLength
	opts.Collocations = c.Collocations
	opts.CollocationThreshold = c.CollocationThreshold
	return opts, nil
}

func (r *run) score(ctx context.Context, table *models.Table) error {
	for _, batch := range utils.Batches(table.Records, utils.BATCH_SIZE) {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch.LogBatchProcessing("score", table.Len())

		for _, rec := range batch.Items {
			rec.CleanText = sentiment.CleanText(table.Text(rec))
			score := r.scorers.Score(rec.CleanText)
			rec.Polarity = score.Polarity
			rec.VaderScore = score.VaderScore
			rec.Sentiment = sentiment.Label(score.VaderScore)
		}
	}
	return nil
}

func (r *run) render(ctx context.Context, corpora []models.Corpus) error {
	images := make([]*wordcloud.Image, len(corpora))
	for i, corpus := range corpora {
		if err := ctx.Err(); err != nil {
			return err
		}

		img, err := r.renderer.Render(corpus)
		switch {
		case err == nil:
		case errors.Is(err, wordcloud.ErrEmptyCorpus):
			img, err = r.emptyCorpus(corpus)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("failed to render %s word cloud: %w", corpus.Label, err)
		}
		images[i] = img
	}
	r.result.Images = images
	return nil
}

func (r *run) emptyCorpus(corpus models.Corpus) (*wordcloud.Image, error) {
	if r.cfg.EmptyCorpus == config.EmptyCorpusSkip {
		slog.Warn("[Pipeline] No words to plot, skipping image",
			slog.String("label", corpus.Label.String()),
			slog.Int("rows", corpus.Rows))
		return nil, nil
	}

	slog.Warn("[Pipeline] No words to plot, rendering placeholder",
		slog.String("label", corpus.Label.String()),
		slog.Int("rows", corpus.Rows))
	img, err := r.renderer.Placeholder(corpus.Label)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s placeholder: %w", corpus.Label, err)
	}
	return img, nil
}

func (r *run) imagePath(label models.SentimentLabel) string {
	switch label {
	case models.Positive:
		return r.cfg.Path(r.cfg.Output.Positive)
	case models.Negative:
		return r.cfg.Path(r.cfg.Output.Negative)
	default:
		return r.cfg.Path(r.cfg.Output.Neutral)
	}
}

func (r *run) write() error {
	sum := report.Summary{
		RunID:  r.result.RunID,
		Input:  r.cfg.Input,
		Column: r.result.Column.Name,
		Rows:   r.result.Table.Len(),
		Counts: r.result.Counts,
	}
	reportPath := r.cfg.Path(r.cfg.Output.Report)

	for i, label := range models.Labels {
		img := r.result.Images[i]
		if img == nil {
			sum.Images = append(sum.Images, report.Image{Label: label, Skipped: true})
			continue
		}
		path := r.imagePath(label)
		if err := r.writer.WritePNG(path, img.RGBA); err != nil {
			return err
		}
		r.result.Outputs = append(r.result.Outputs, path)
		sum.Images = append(sum.Images, report.Image{
			Label:       label,
			Path:        relativeTo(reportPath, path),
			Placeholder: img.Placeholder,
		})
	}

	tablePath := r.cfg.Path(r.cfg.Output.Table)
	if err := r.writer.WriteTable(tablePath, r.result.Table); err != nil {
		return err
	}
	r.result.Outputs = append(r.result.Outputs, tablePath)

	if panelPath := r.cfg.Path(r.cfg.Output.Panel); panelPath != "" {
		panel, err := r.renderer.Panel(r.result.Images)
		switch {
		case errors.Is(err, wordcloud.ErrNoPanelImages):
			slog.Warn("[Pipeline] Every image was skipped, no panel written")
		case err != nil:
			return fmt.Errorf("failed to compose panel: %w", err)
		default:
			if err := r.writer.WritePNG(panelPath, panel); err != nil {
				return err
			}
			r.result.Outputs = append(r.result.Outputs, panelPath)
			sum.Panel = relativeTo(reportPath, panelPath)
		}
	}

	if reportPath != "" {
		html := report.HTML(report.Markdown(sum))
		if err := r.writer.WriteReport(reportPath, html); err != nil {
			return err
		}
		r.result.Outputs = append(r.result.Outputs, reportPath)
	}
	return nil
}

// relativeTo expresses target relative to the directory of the file at base,
// falling back to target itself.
func relativeTo(base, target string) string {
	if base == "" {
		return target
	}
	rel, err := filepath.Rel(filepath.Dir(base), target)
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
