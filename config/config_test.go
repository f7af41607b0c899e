package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "stock_data.csv", cfg.Input)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, EmptyCorpusPlaceholder, cfg.EmptyCorpus)
	assert.Equal(t, 1000, cfg.WordCloud.Width)
	assert.Equal(t, 600, cfg.WordCloud.Height)
	assert.Equal(t, "white", cfg.WordCloud.Background)
	assert.True(t, cfg.WordCloud.Collocations)
	assert.Equal(t, 30.0, cfg.WordCloud.CollocationThreshold)
	assert.Zero(t, cfg.WordCloud.MinWordLength)
	assert.Equal(t, "positive_wordcloud.png", cfg.Output.Positive)
	assert.Equal(t, "sentiment_results_with_wordcloud.csv", cfg.Output.Table)
}

func TestLoad_YAMLKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `input: reviews.tsv
delimiter: "\t"
overwrite: false
output:
  dir: out
  report: ""
wordcloud:
  seed: 7
  collocations: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "reviews.tsv", cfg.Input)
	assert.Equal(t, '\t', cfg.Delim())
	assert.False(t, cfg.Overwrite)
	assert.Equal(t, uint64(7), cfg.WordCloud.Seed)
	assert.False(t, cfg.WordCloud.Collocations)
	assert.Equal(t, 1000, cfg.WordCloud.Width)
	assert.Equal(t, filepath.Join("out", "positive_wordcloud.png"), cfg.Path(cfg.Output.Positive))
	assert.Empty(t, cfg.Path(cfg.Output.Report))
	assert.Len(t, cfg.OutputPaths(), 5)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/path/that/does/not/exist/config.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown empty corpus policy", content: "empty_corpus: explode\n"},
		{name: "zero width", content: "wordcloud:\n  width: 0\n"},
		{name: "max font below min", content: "wordcloud:\n  min_font_size: 20\n  max_font_size: 10\n"},
		{name: "height too small for min font", content: "wordcloud:\n  height: 12\n  min_font_size: 4\n"},
		{name: "negative collocation threshold", content: "wordcloud:\n  collocation_threshold: -1\n"},
		{name: "multi character delimiter", content: "delimiter: \";;\"\n"},
		{name: "bad log level", content: "log_level: loud\n"},
		{name: "malformed yaml", content: "output: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestWordCloudConfig_FontSizeMax(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "default is a quarter of the height", content: "", want: 150},
		{name: "follows the height", content: "wordcloud:\n  height: 400\n", want: 100},
		{name: "explicit value wins", content: "wordcloud:\n  height: 400\n  max_font_size: 80\n", want: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.WordCloud.FontSizeMax())
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SENTIMENT_INPUT", "env.csv")
	t.Setenv("SENTIMENT_OUTPUT_DIR", "env-out")
	t.Setenv("SENTIMENT_OVERWRITE", "false")
	t.Setenv("SENTIMENT_EMPTY_CORPUS", "skip")
	t.Setenv("SENTIMENT_SEED", "99")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env.csv", cfg.Input)
	assert.Equal(t, "env-out", cfg.Output.Dir)
	assert.False(t, cfg.Overwrite)
	assert.Equal(t, EmptyCorpusSkip, cfg.EmptyCorpus)
	assert.Equal(t, uint64(99), cfg.WordCloud.Seed)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_BadEnvOverride(t *testing.T) {
	t.Setenv("SENTIMENT_OVERWRITE", "maybe")

	_, err := Load("")
	assert.Error(t, err)
}

func TestPath_AbsoluteNamesIgnoreDir(t *testing.T) {
	cfg := Default()
	cfg.Output.Dir = "out"
	abs := filepath.Join(t.TempDir(), "x.png")

	assert.Equal(t, abs, cfg.Path(abs))
}
