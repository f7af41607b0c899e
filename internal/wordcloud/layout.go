package wordcloud

import (
	"image"
	"math/rand/v2"
)

// scanStep is the grid spacing, in pixels, of candidate positions.
const scanStep = 2

// occupancy tracks which pixels of the canvas are covered by placed words. A
// summed-area table answers "is this box free" in constant time.
type occupancy struct {
	width, height int
	filled        []bool
	integral      []int32
}

func newOccupancy(width, height int) *occupancy {
	return &occupancy{
		width:    width,
		height:   height,
		filled:   make([]bool, width*height),
		integral: make([]int32, (width+1)*(height+1)),
	}
}

// sum counts filled pixels in [x0,x1) x [y0,y1).
func (o *occupancy) sum(x0, y0, x1, y1 int) int32 {
	w := o.width + 1
	return o.integral[y1*w+x1] - o.integral[y0*w+x1] - o.integral[y1*w+x0] + o.integral[y0*w+x0]
}

func (o *occupancy) free(x, y, w, h int) bool {
	return o.sum(x, y, x+w, y+h) == 0
}

// fill marks r as covered and rebuilds the summed-area table.
func (o *occupancy) fill(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, o.width, o.height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := o.filled[y*o.width:]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = true
		}
	}

	w := o.width + 1
	for y := 1; y <= o.height; y++ {
		var rowSum int32
		for x := 1; x <= o.width; x++ {
			if o.filled[(y-1)*o.width+(x-1)] {
				rowSum++
			}
			o.integral[y*w+x] = o.integral[(y-1)*w+x] + rowSum
		}
	}
}

// findPosition picks a free top-left corner for a w x h box uniformly at
// random among the candidate grid positions. ok is false when the box does not
// fit anywhere.
func (o *occupancy) findPosition(w, h int, rng *rand.Rand) (image.Point, bool) {
	if w > o.width || h > o.height {
		return image.Point{}, false
	}

	hits := 0
	for y := 0; y+h <= o.height; y += scanStep {
		for x := 0; x+w <= o.width; x += scanStep {
			if o.free(x, y, w, h) {
				hits++
			}
		}
	}
	if hits == 0 {
		return image.Point{}, false
	}

	target := rng.IntN(hits)
	for y := 0; y+h <= o.height; y += scanStep {
		for x := 0; x+w <= o.width; x += scanStep {
			if !o.free(x, y, w, h) {
				continue
			}
			if target == 0 {
				return image.Pt(x, y), true
			}
			target--
		}
	}
	return image.Point{}, false
}
