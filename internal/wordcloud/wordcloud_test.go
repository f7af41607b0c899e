package wordcloud

import (
	"bytes"
	"image"
	"image/color"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spacesedan/senticlouds/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Width = 240
	opts.Height = 144
	opts.MaxFontSize = 60
	return opts
}

func newTestRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := NewRenderer(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

var white = color.RGBA{0xff, 0xff, 0xff, 0xff}

func defaultTextOptions() TextOptions {
	return DefaultOptions().textOptions()
}

func TestFrequencies(t *testing.T) {
	text := "cats cat cat dogs running 123 the it's john's a running"

	got := Frequencies(text, defaultTextOptions())
	want := []WordCount{
		{Word: "cat", Count: 3},
		{Word: "running", Count: 2},
		{Word: "dogs", Count: 1},
		{Word: "john", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("frequencies mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequencies_MaxWords(t *testing.T) {
	got := Frequencies("alpha beta beta gamma gamma gamma", TextOptions{MaxWords: 2})
	assert.Equal(t, []WordCount{{"gamma", 3}, {"beta", 2}}, got)
}

func TestFrequencies_OnlyStopwords(t *testing.T) {
	assert.Empty(t, Frequencies("the and of 42 i", defaultTextOptions()))
}

func TestFrequencies_SingleLetterWords(t *testing.T) {
	assert.Equal(t, []WordCount{{"x", 2}, {"y", 1}}, Frequencies("x y x", TextOptions{}))
	assert.Empty(t, Frequencies("x y x", TextOptions{MinWordLength: 2}))

	got := Frequencies("go is fun", TextOptions{MinWordLength: 3})
	assert.Equal(t, []WordCount{{"fun", 1}}, got)
}

func TestFrequencies_Collocations(t *testing.T) {
	text := strings.Repeat("new york stock exchange rallied ", 6) +
		"apple shares rose bank earnings beat oil prices fell tech stocks gained"
	tail := []WordCount{
		{"apple", 1}, {"shares", 1}, {"rose", 1}, {"bank", 1}, {"earnings", 1},
		{"beat", 1}, {"oil", 1}, {"prices", 1}, {"fell", 1}, {"tech", 1}, {"gained", 1},
	}

	t.Run("phrases above threshold", func(t *testing.T) {
		want := append([]WordCount{
			{"stock", 7}, {"new york", 6}, {"exchange rallied", 6},
		}, tail...)
		if diff := cmp.Diff(want, Frequencies(text, defaultTextOptions())); diff != "" {
			t.Errorf("frequencies mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		opts := defaultTextOptions()
		opts.Collocations = false
		want := append([]WordCount{
			{"stock", 7}, {"new", 6}, {"york", 6}, {"exchange", 6}, {"rallied", 6},
		}, tail...)
		if diff := cmp.Diff(want, Frequencies(text, opts)); diff != "" {
			t.Errorf("frequencies mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("threshold out of reach", func(t *testing.T) {
		opts := defaultTextOptions()
		opts.CollocationThreshold = 1000
		for _, wc := range Frequencies(text, opts) {
			assert.NotContains(t, wc.Word, " ")
		}
	})
}

func TestCollocationScore(t *testing.T) {
	tests := []struct {
		c12, c1, c2, n int
		want           float64
	}{
		{6, 6, 6, 40, 33.81672702447927},
		{6, 6, 7, 40, 28.075098568441547},
		{1, 1, 1, 4, 4.498681156950466},
		{1, 2, 2, 10, 1.2071371684209877},
		{2, 3, 3, 3, 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, collocationScore(tt.c12, tt.c1, tt.c2, tt.n), 1e-9,
			"score(%d, %d, %d, %d)", tt.c12, tt.c1, tt.c2, tt.n)
	}
}

func TestPalette_At(t *testing.T) {
	assert.Equal(t, Greens[0], Greens.At(-1))
	assert.Equal(t, Greens[len(Greens)-1], Greens.At(2))
	assert.Equal(t, Reds[1], Reds.At(1.0/float64(len(Reds)-1)))

	assert.Equal(t, Greens, PaletteFor(models.Positive))
	assert.Equal(t, Reds, PaletteFor(models.Negative))
	assert.Equal(t, Blues, PaletteFor(models.Neutral))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("White")
	require.NoError(t, err)
	assert.Equal(t, white, c)

	c, err = ParseColor("#102030")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 0xff}, c)

	_, err = ParseColor("#12")
	assert.Error(t, err)
	_, err = ParseColor("chartreuse-ish")
	assert.Error(t, err)
}

func TestOccupancy_FindPosition(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	occ := newOccupancy(10, 10)

	p, ok := occ.findPosition(10, 10, rng)
	require.True(t, ok)
	assert.Equal(t, image.Pt(0, 0), p)

	occ.fill(image.Rect(0, 0, 5, 10))
	_, ok = occ.findPosition(6, 10, rng)
	assert.False(t, ok)

	p, ok = occ.findPosition(4, 10, rng)
	require.True(t, ok)
	assert.Equal(t, image.Pt(6, 0), p)

	_, ok = occ.findPosition(11, 1, rng)
	assert.False(t, ok)
}

func TestRotate90(t *testing.T) {
	src := image.NewAlpha(image.Rect(0, 0, 2, 1))
	src.SetAlpha(0, 0, color.Alpha{A: 0xff})

	dst := rotate90(src)
	assert.Equal(t, image.Rect(0, 0, 1, 2), dst.Bounds())
	assert.Equal(t, uint8(0xff), dst.AlphaAt(0, 1).A)
	assert.Equal(t, uint8(0), dst.AlphaAt(0, 0).A)
}

func TestNewRenderer_InvalidOptions(t *testing.T) {
	opts := smallOptions()
	opts.Width = 0
	_, err := NewRenderer(opts)
	assert.Error(t, err)

	opts = smallOptions()
	opts.MinFontSize = 80
	_, err = NewRenderer(opts)
	assert.Error(t, err)
}

func TestNewRenderer_DerivesMaxFontSize(t *testing.T) {
	opts := smallOptions()
	opts.MaxFontSize = 0

	r := newTestRenderer(t, opts)
	assert.Equal(t, 144/4, r.Options().MaxFontSize)
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t, smallOptions())
	corpus := models.Corpus{
		Label: models.Positive,
		Text:  "great quarter great results strong growth great team strong demand",
		Rows:  2,
	}

	img, err := r.Render(corpus)
	require.NoError(t, err)

	assert.Equal(t, models.Positive, img.Label)
	assert.False(t, img.Placeholder)
	assert.Equal(t, image.Rect(0, 0, 240, 144), img.RGBA.Bounds())
	require.NotEmpty(t, img.Words)
	assert.Equal(t, "great", img.Words[0].Word)

	for i := 1; i < len(img.Words); i++ {
		assert.LessOrEqual(t, img.Words[i].FontSize, img.Words[i-1].FontSize)
	}

	// every painted pixel belongs to a placed word
	painted := 0
	b := img.RGBA.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBA.RGBAAt(x, y) == white {
				continue
			}
			painted++
			inside := false
			for _, w := range img.Words {
				if image.Pt(x, y).In(w.Bounds) {
					inside = true
					break
				}
			}
			require.True(t, inside, "stray pixel at %d,%d", x, y)
		}
	}
	assert.Positive(t, painted)

	// placed words never overlap
	for i := range img.Words {
		for j := i + 1; j < len(img.Words); j++ {
			assert.False(t, img.Words[i].Bounds.Overlaps(img.Words[j].Bounds),
				"%q overlaps %q", img.Words[i].Word, img.Words[j].Word)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	corpus := models.Corpus{Label: models.Negative, Text: "bad loss bad miss weak weak bad"}

	first, err := newTestRenderer(t, smallOptions()).Render(corpus)
	require.NoError(t, err)
	second, err := newTestRenderer(t, smallOptions()).Render(corpus)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first.RGBA.Pix, second.RGBA.Pix))
	assert.Equal(t, first.Words, second.Words)
}

func TestRender_RotatesVerticalWords(t *testing.T) {
	opts := smallOptions()
	opts.PreferHorizontal = 0
	opts.MaxFontSize = 30
	r := newTestRenderer(t, opts)

	img, err := r.Render(models.Corpus{Label: models.Neutral, Text: "great great quarter"})
	require.NoError(t, err)

	require.NotEmpty(t, img.Words)
	first := img.Words[0]
	assert.Equal(t, "great", first.Word)
	assert.True(t, first.Rotated)
	assert.Greater(t, first.Bounds.Dy(), first.Bounds.Dx())
}

func TestRender_EmptyCorpus(t *testing.T) {
	r := newTestRenderer(t, smallOptions())

	for _, text := range []string{"", "the and of", "123 456"} {
		_, err := r.Render(models.Corpus{Label: models.Neutral, Text: text})
		assert.ErrorIs(t, err, ErrEmptyCorpus, "text %q", text)
	}
}

func TestPlaceholder(t *testing.T) {
	r := newTestRenderer(t, smallOptions())

	img, err := r.Placeholder(models.Negative)
	require.NoError(t, err)

	assert.True(t, img.Placeholder)
	assert.Empty(t, img.Words)
	assert.Equal(t, image.Rect(0, 0, 240, 144), img.RGBA.Bounds())
	assert.NotEqual(t, white, img.RGBA.RGBAAt(120, 144*45/100), "glyph not drawn")
	assert.Equal(t, white, img.RGBA.RGBAAt(0, 0))
}

func TestPanel(t *testing.T) {
	r := newTestRenderer(t, smallOptions())

	pos, err := r.Render(models.Corpus{Label: models.Positive, Text: "good good fine"})
	require.NoError(t, err)
	neu, err := r.Placeholder(models.Neutral)
	require.NoError(t, err)

	panel, err := r.Panel([]*Image{pos, nil, neu})
	require.NoError(t, err)

	cellH := PanelCellWidth * 144 / 240
	assert.Equal(t, 3*PanelCellWidth+4*PanelPadding, panel.Bounds().Dx())
	assert.Equal(t, PanelTitleHeight+cellH+PanelPadding, panel.Bounds().Dy())

	// the skipped negative cell stays blank
	x0 := PanelPadding + PanelCellWidth + PanelPadding
	for y := PanelTitleHeight; y < PanelTitleHeight+cellH; y += 7 {
		for x := x0; x < x0+PanelCellWidth; x += 7 {
			require.Equal(t, white, panel.RGBAAt(x, y))
		}
	}
}

func TestPanel_NoImages(t *testing.T) {
	r := newTestRenderer(t, smallOptions())

	_, err := r.Panel([]*Image{nil, nil})
	assert.ErrorIs(t, err, ErrNoPanelImages)
}
