package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	gifCharW = 8
	gifCharH = 16
)

var errNoFrames = errors.New("viz: no frames recorded")

// Recorder rasterizes canvas frames into an animated GIF.
type Recorder struct {
	cols, rows int
	frames     []*image.Paletted
}

func NewRecorder(cols, rows int) *Recorder {
	return &Recorder{cols: cols, rows: rows}
}

func (r *Recorder) Frames() int { return len(r.frames) }

// Capture draws every set braille dot as a white block.
func (r *Recorder) Capture(c *Canvas) {
	imgW, imgH := r.cols*gifCharW, r.rows*gifCharH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := gifCharW/2, gifCharH/4

	for y := 0; y < r.rows*4; y++ {
		for x := 0; x < r.cols*2; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating gif: %w", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encoding gif: %w", err)
	}
	return nil
}
