package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

const (
	EmptyCorpusPlaceholder = "placeholder"
	EmptyCorpusSkip        = "skip"
)

type OutputConfig struct {
	Dir      string `yaml:"dir" validate:"required"`
	Table    string `yaml:"table" validate:"required"`
	Positive string `yaml:"positive" validate:"required"`
	Negative string `yaml:"negative" validate:"required"`
	Neutral  string `yaml:"neutral" validate:"required"`
	// Panel and Report are optional; an empty path disables them.
	Panel  string `yaml:"panel"`
	Report string `yaml:"report"`
}

type WordCloudConfig struct {
	Width            int     `yaml:"width" validate:"gt=0"`
	Height           int     `yaml:"height" validate:"gt=0"`
	Background       string  `yaml:"background" validate:"required"`
	MaxWords         int     `yaml:"max_words" validate:"gt=0"`
	MinFontSize      int     `yaml:"min_font_size" validate:"gt=0"`
	// MaxFontSize of 0 means a quarter of Height.
	MaxFontSize      int     `yaml:"max_font_size" validate:"omitempty,gtefield=MinFontSize"`
	PreferHorizontal float64 `yaml:"prefer_horizontal" validate:"gte=0,lte=1"`
	RelativeScaling  float64 `yaml:"relative_scaling" validate:"gte=0,lte=1"`
	Seed             uint64  `yaml:"seed"`

	MinWordLength        int     `yaml:"min_word_length" validate:"gte=0"`
	Collocations         bool    `yaml:"collocations"`
	CollocationThreshold float64 `yaml:"collocation_threshold" validate:"gte=0"`
}

type Config struct {
	Input           string          `yaml:"input" validate:"required"`
	Delimiter       string          `yaml:"delimiter" validate:"max=1"`
	PolarityLexicon string          `yaml:"polarity_lexicon"`
	Overwrite       bool            `yaml:"overwrite"`
	EmptyCorpus     string          `yaml:"empty_corpus" validate:"oneof=placeholder skip"`
	LogLevel        string          `yaml:"log_level" validate:"oneof=debug info warn error"`
	Output          OutputConfig    `yaml:"output"`
	WordCloud       WordCloudConfig `yaml:"wordcloud"`
}

// Default returns the settings the analyzer runs with when nothing is
// configured.
func Default() *Config {
	return &Config{
		Input:       "stock_data.csv",
		Overwrite:   true,
		EmptyCorpus: EmptyCorpusPlaceholder,
		LogLevel:    "info",
		Output: OutputConfig{
			Dir:      ".",
			Table:    "sentiment_results_with_wordcloud.csv",
			Positive: "positive_wordcloud.png",
			Negative: "negative_wordcloud.png",
			Neutral:  "neutral_wordcloud.png",
			Panel:    "sentiment_wordclouds.png",
			Report:   "sentiment_report.html",
		},
		WordCloud: WordCloudConfig{
			Width:            1000,
			Height:           600,
			Background:       "white",
			MaxWords:         200,
			MinFontSize:      4,
			PreferHorizontal: 0.9,
			RelativeScaling:  0.5,
			Seed:             42,

			Collocations:         true,
			CollocationThreshold: 30,
		},
	}
}

// Load builds the run configuration: defaults, then the YAML file at path (if
// any), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v, ok := os.LookupEnv("SENTIMENT_INPUT"); ok && v != "" {
		c.Input = v
	}
	if v, ok := os.LookupEnv("SENTIMENT_OUTPUT_DIR"); ok && v != "" {
		c.Output.Dir = v
	}
	if v, ok := os.LookupEnv("SENTIMENT_EMPTY_CORPUS"); ok && v != "" {
		c.EmptyCorpus = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("SENTIMENT_OVERWRITE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SENTIMENT_OVERWRITE %q: %w", v, err)
		}
		c.Overwrite = b
	}
	if v, ok := os.LookupEnv("SENTIMENT_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SENTIMENT_SEED %q: %w", v, err)
		}
		c.WordCloud.Seed = seed
	}
	return nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.WordCloud.FontSizeMax() < c.WordCloud.MinFontSize {
		return fmt.Errorf("invalid configuration: height %d gives a max font size below min_font_size %d",
			c.WordCloud.Height, c.WordCloud.MinFontSize)
	}
	return nil
}

// FontSizeMax resolves the largest font size of a cloud.
func (w WordCloudConfig) FontSizeMax() int {
	if w.MaxFontSize > 0 {
		return w.MaxFontSize
	}
	return w.Height / 4
}

// Path resolves an output file name against the output directory. Empty names
// stay empty so optional outputs remain disabled.
func (c *Config) Path(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Output.Dir, name)
}

// OutputPaths lists every file the run may write.
func (c *Config) OutputPaths() []string {
	var paths []string
	for _, name := range []string{
		c.Output.Table,
		c.Output.Positive,
		c.Output.Negative,
		c.Output.Neutral,
		c.Output.Panel,
		c.Output.Report,
	} {
		if p := c.Path(name); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Delim returns the configured delimiter rune, or 0 for auto-detection.
func (c *Config) Delim() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return 0
}
