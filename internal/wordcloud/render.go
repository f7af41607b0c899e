package wordcloud

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/spacesedan/senticlouds/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var ErrEmptyCorpus = errors.New("corpus has no words to plot")

type Options struct {
	Width            int
	Height           int
	Background       color.RGBA
	MaxWords         int
	MinFontSize      int
	// MaxFontSize of 0 means a quarter of Height.
	MaxFontSize      int
	FontStep         int
	Margin           int
	PreferHorizontal float64
	RelativeScaling  float64
	Seed             uint64

	Stopwords            map[string]struct{}
	MinWordLength        int
	Collocations         bool
	CollocationThreshold float64
}

func (o Options) textOptions() TextOptions {
	return TextOptions{
		Stopwords:            o.Stopwords,
		MaxWords:             o.MaxWords,
		MinWordLength:        o.MinWordLength,
		Collocations:         o.Collocations,
		CollocationThreshold: o.CollocationThreshold,
	}
}

func DefaultOptions() Options {
	return Options{
		Width:            1000,
		Height:           600,
		Background:       color.RGBA{0xff, 0xff, 0xff, 0xff},
		MaxWords:         200,
		MinFontSize:      4,
		FontStep:         1,
		Margin:           2,
		PreferHorizontal: 0.9,
		RelativeScaling:  0.5,
		Seed:             42,

		Stopwords:            DefaultStopwords(),
		Collocations:         true,
		CollocationThreshold: DefaultCollocationThreshold,
	}
}

type PlacedWord struct {
	Word     string
	Count    int
	FontSize int
	Rotated  bool
	Bounds   image.Rectangle
	Color    color.RGBA
}

// Image is a rendered cloud for one label.
type Image struct {
	Label       models.SentimentLabel
	RGBA        *image.RGBA
	Words       []PlacedWord
	Placeholder bool
}

// Renderer draws word clouds. It is not safe for concurrent use: it caches font
// faces per size.
type Renderer struct {
	opts  Options
	font  *opentype.Font
	faces map[int]font.Face
}

func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", opts.Width, opts.Height)
	}
	if opts.MaxFontSize == 0 {
		opts.MaxFontSize = opts.Height / 4
	}
	if opts.MinFontSize <= 0 || opts.MaxFontSize < opts.MinFontSize {
		return nil, fmt.Errorf("invalid font size range [%d, %d]", opts.MinFontSize, opts.MaxFontSize)
	}
	if opts.FontStep <= 0 {
		opts.FontStep = 1
	}
	if opts.Stopwords == nil {
		opts.Stopwords = DefaultStopwords()
	}

	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Renderer{opts: opts, font: f, faces: make(map[int]font.Face)}, nil
}

func (r *Renderer) Options() Options {
	return r.opts
}

// Close releases cached font faces.
func (r *Renderer) Close() error {
	var errs []error
	for size, face := range r.faces {
		if err := face.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.faces, size)
	}
	return errors.Join(errs...)
}

func (r *Renderer) face(size int) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %dpt face: %w", size, err)
	}
	r.faces[size] = f
	return f, nil
}

func (r *Renderer) newCanvas() *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)
	return canvas
}

// Render draws the cloud of a corpus. A corpus without countable words
// returns ErrEmptyCorpus.
func (r *Renderer) Render(corpus models.Corpus) (*Image, error) {
	words := Frequencies(corpus.Text, r.opts.textOptions())
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, corpus.Label)
	}

	rng := rand.New(rand.NewPCG(r.opts.Seed, r.opts.Seed))
	palette := PaletteFor(corpus.Label)
	canvas := r.newCanvas()
	occ := newOccupancy(r.opts.Width, r.opts.Height)

	out := &Image{Label: corpus.Label, RGBA: canvas}
	maxCount := float64(words[0].Count)
	fontSize := r.opts.MaxFontSize
	lastFreq := 1.0

	for _, wc := range words {
		freq := float64(wc.Count) / maxCount
		if r.opts.RelativeScaling != 0 {
			fontSize = int(math.Round((r.opts.RelativeScaling*(freq/lastFreq) + (1 - r.opts.RelativeScaling)) * float64(fontSize)))
		}

		rotated := rng.Float64() >= r.opts.PreferHorizontal
		triedOther := false
		var (
			pos  image.Point
			mask *image.Alpha
		)
		for {
			if fontSize < r.opts.MinFontSize {
				break
			}
			m, err := r.wordMask(wc.Word, fontSize, rotated)
			if err != nil {
				return nil, err
			}
			box := m.Bounds()
			p, ok := occ.findPosition(box.Dx()+r.opts.Margin, box.Dy()+r.opts.Margin, rng)
			if ok {
				pos, mask = p, m
				break
			}
			if !triedOther && r.opts.PreferHorizontal < 1 {
				rotated = !rotated
				triedOther = true
				continue
			}
			fontSize -= r.opts.FontStep
			rotated = false
		}
		if fontSize < r.opts.MinFontSize {
			break
		}

		c := palette.At(rng.Float64())
		half := r.opts.Margin / 2
		dst := mask.Bounds().Add(pos).Add(image.Pt(half, half))
		draw.DrawMask(canvas, dst, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
		occ.fill(image.Rectangle{Min: pos, Max: pos.Add(image.Pt(mask.Bounds().Dx()+r.opts.Margin, mask.Bounds().Dy()+r.opts.Margin))})

		out.Words = append(out.Words, PlacedWord{
			Word:     wc.Word,
			Count:    wc.Count,
			FontSize: fontSize,
			Rotated:  rotated,
			Bounds:   dst,
			Color:    c,
		})
		lastFreq = freq
	}

	if len(out.Words) == 0 {
		return nil, fmt.Errorf("%w: %s: no word fits the canvas", ErrEmptyCorpus, corpus.Label)
	}

	slog.Debug("[WordCloud] Rendered cloud",
		slog.String("label", corpus.Label.String()),
		slog.Int("distinct_words", len(words)),
		slog.Int("placed_words", len(out.Words)))
	return out, nil
}

// wordMask rasterizes word into a tight alpha mask, rotated 90 degrees
// counter-clockwise when rotated is set.
func (r *Renderer) wordMask(word string, size int, rotated bool) (*image.Alpha, error) {
	face, err := r.face(size)
	if err != nil {
		return nil, err
	}
	bounds, _ := font.BoundString(face, word)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y},
	}
	d.DrawString(word)

	if !rotated {
		return mask, nil
	}
	return rotate90(mask), nil
}

func rotate90(src *image.Alpha) *image.Alpha {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewAlpha(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			dst.SetAlpha(x, y, src.AlphaAt(w-1-y, x))
		}
	}
	return dst
}
