package wordcloud

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/spacesedan/senticlouds/internal/models"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const cloudGlyph = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 40">
<path fill="#d9d9d9" stroke="#bdbdbd" stroke-width="1.5"
 d="M16 38 C7 38 2 32 2 26 C2 20 7 15 13 15 C14 8 20 3 28 3 C35 3 41 8 43 14 C45 13 47 13 49 13 C56 13 62 19 62 26 C62 33 56 38 49 38 Z"/>
</svg>`

// placeholderCaptionSize is the caption font size in points.
const placeholderCaptionSize = 32

// Placeholder draws the image used in place of a cloud for a label with no
// words: a grey cloud glyph above the caption "No <label> texts".
func (r *Renderer) Placeholder(label models.SentimentLabel) (*Image, error) {
	canvas := r.newCanvas()
	w, h := r.opts.Width, r.opts.Height

	icon, err := oksvg.ReadIconStream(strings.NewReader(cloudGlyph))
	if err != nil {
		return nil, fmt.Errorf("failed to parse placeholder glyph: %w", err)
	}

	glyphW := float64(w) * 0.4
	glyphH := glyphW * 40 / 64
	if maxH := float64(h) * 0.5; glyphH > maxH {
		glyphH = maxH
		glyphW = glyphH * 64 / 40
	}
	x := (float64(w) - glyphW) / 2
	y := float64(h)*0.45 - glyphH/2
	icon.SetTarget(x, y, glyphW, glyphH)

	scanner := rasterx.NewScannerGV(w, h, canvas, canvas.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	caption := fmt.Sprintf("No %s texts", label)
	size := placeholderCaptionSize
	if size > r.opts.MaxFontSize {
		size = r.opts.MaxFontSize
	}
	face, err := r.face(size)
	if err != nil {
		return nil, err
	}
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.RGBA{0x73, 0x73, 0x73, 0xff}),
		Face: face,
	}
	advance := d.MeasureString(caption)
	if limit := fixed.I(w * 9 / 10); advance > limit {
		size = max(r.opts.MinFontSize, int(int64(size)*int64(limit)/int64(advance)))
		if d.Face, err = r.face(size); err != nil {
			return nil, err
		}
		advance = d.MeasureString(caption)
	}
	baseline := int(y+glyphH) + size + size/2
	d.Dot = fixed.Point26_6{
		X: (fixed.I(w) - advance) / 2,
		Y: fixed.I(baseline),
	}
	d.DrawString(caption)

	slog.Debug("[WordCloud] Rendered placeholder", slog.String("label", label.String()))
	return &Image{Label: label, RGBA: canvas, Placeholder: true}, nil
}
