package wordcloud

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/spacesedan/senticlouds/internal/models"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	PanelCellWidth   = 640
	PanelPadding     = 20
	PanelTitleHeight = 60
	panelTitleSize   = 28
)

var ErrNoPanelImages = errors.New("no images to compose")

// Panel lays the clouds out side by side, one titled cell per label in
// models.Labels order. A label without an image, for example one skipped as
// empty, leaves its cell blank under the title.
func (r *Renderer) Panel(images []*Image) (*image.RGBA, error) {
	byLabel := make(map[models.SentimentLabel]*Image, len(images))
	for _, img := range images {
		if img != nil && img.RGBA != nil {
			byLabel[img.Label] = img
		}
	}
	if len(byLabel) == 0 {
		return nil, ErrNoPanelImages
	}

	cellW := PanelCellWidth
	cellH := cellW * r.opts.Height / r.opts.Width
	n := len(models.Labels)
	width := n*cellW + (n+1)*PanelPadding
	height := PanelTitleHeight + cellH + PanelPadding

	panel := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(panel, panel.Bounds(), image.White, image.Point{}, draw.Src)

	face, err := r.face(panelTitleSize)
	if err != nil {
		return nil, err
	}
	d := &font.Drawer{Dst: panel, Src: image.NewUniform(color.Black), Face: face}

	for i, label := range models.Labels {
		x0 := PanelPadding + i*(cellW+PanelPadding)
		cell := image.Rect(x0, PanelTitleHeight, x0+cellW, PanelTitleHeight+cellH)

		title := fmt.Sprintf("%s Sentiment", label)
		advance := d.MeasureString(title)
		d.Dot = fixed.Point26_6{
			X: fixed.I(x0) + (fixed.I(cellW)-advance)/2,
			Y: fixed.I(PanelTitleHeight - (PanelTitleHeight-panelTitleSize)/2),
		}
		d.DrawString(title)

		img, ok := byLabel[label]
		if !ok {
			continue
		}
		draw.CatmullRom.Scale(panel, cell, img.RGBA, img.RGBA.Bounds(), draw.Src, nil)
	}
	return panel, nil
}
