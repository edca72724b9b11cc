package animation

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"

	"github.com/disintegration/imaging"

	"asciify/internal/services"
)

// Sequence describes an extracted animation.
type Sequence struct {
	Frames    []string
	DelaysMS  []int
	LoopCount int
	Width     int
	Height    int
}

// Len returns the number of extracted frames.
func (s Sequence) Len() int { return len(s.Frames) }

// Extract decodes src and writes one fully composited PNG per frame using
// framePath(index) for the 1-based index.
func Extract(src string, framePath func(index int) string) (Sequence, error) {
	f, err := os.Open(src)
	if err != nil {
		return Sequence{}, services.Wrap(services.ErrIO, "animation", "open source", src, err)
	}
	defer f.Close()

	anim, err := gif.DecodeAll(bufio.NewReader(f))
	if err != nil {
		return Sequence{}, services.Wrap(services.ErrRender, "animation", "decode", src, err)
	}
	if len(anim.Image) == 0 {
		return Sequence{}, services.Wrap(services.ErrValidation, "animation", "decode", src+" contains no frames", nil)
	}

	bounds := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if bounds.Empty() {
		bounds = anim.Image[0].Bounds()
	}

	seq := Sequence{
		LoopCount: anim.LoopCount,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}

	canvas := image.NewNRGBA(bounds)
	var restore *image.NRGBA
	for i, frame := range anim.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(anim.Disposal) {
			disposal = anim.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			restore = imaging.Clone(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		index := i + 1
		path := framePath(index)
		if err := imaging.Save(canvas, path); err != nil {
			return Sequence{}, services.Wrap(services.ErrIO, "animation", "write frame", path, err)
		}
		seq.Frames = append(seq.Frames, path)
		seq.DelaysMS = append(seq.DelaysMS, delayAt(anim.Delay, i)*10)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			if restore != nil {
				canvas = restore
				restore = nil
			}
		}
	}

	if len(seq.Frames) != len(anim.Image) {
		return Sequence{}, fmt.Errorf("extracted %d of %d frames", len(seq.Frames), len(anim.Image))
	}
	return seq, nil
}

func delayAt(delays []int, i int) int {
	if i < len(delays) {
		return delays[i]
	}
	return 0
}
