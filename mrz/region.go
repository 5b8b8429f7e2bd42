package mrz

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Band geometry constants. The MRZ occupies the bottom of the document; the
// fallback assumes the bottom 30% of the image height and looks for wide,
// flat text-line blobs inside it.
const (
	bandFraction   = 0.3
	minWidthRatio  = 0.3
	minAspectRatio = 5.0
	cropPadding    = 10
	upscaleFactor  = 3
	kernelWidth    = 20
	kernelHeight   = 2
)

// locateBand returns the upscaled, binarized MRZ crop, or nil when no
// plausible text-line blobs are found.
func locateBand(img image.Image) *image.Gray {
	gray := toGray(img)
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	bandTop := bounds.Min.Y + int(float64(height)*(1-bandFraction))
	band := crop(gray, image.Rect(bounds.Min.X, bandTop, bounds.Max.X, bounds.Max.Y))

	// Dark glyphs become foreground, then a wide horizontal closing fuses
	// character strokes into line-like blobs.
	bin := binarizeInverted(band, otsuThreshold(band))
	closed := closeRect(bin, kernelWidth, kernelHeight)

	var lineBoxes []image.Rectangle
	for _, box := range components(closed) {
		w, h := box.Dx(), box.Dy()
		if h == 0 {
			continue
		}
		if float64(w) > float64(width)*minWidthRatio && float64(w)/float64(h) > minAspectRatio {
			lineBoxes = append(lineBoxes, box)
		}
	}
	if len(lineBoxes) == 0 {
		return nil
	}

	union := lineBoxes[0]
	for _, box := range lineBoxes[1:] {
		union = union.Union(box)
	}
	union = union.Inset(-cropPadding).Intersect(band.Bounds())
	if union.Empty() {
		return nil
	}

	region := crop(band, union)
	scaled := scale(region, upscaleFactor)
	return binarize(scaled, otsuThreshold(scaled))
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

func crop(g *image.Gray, r image.Rectangle) *image.Gray {
	return g.SubImage(r.Intersect(g.Bounds())).(*image.Gray)
}

func scale(g *image.Gray, factor int) *image.Gray {
	src := g.Bounds()
	dst := image.NewGray(image.Rect(0, 0, src.Dx()*factor, src.Dy()*factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), g, src, draw.Src, nil)
	return dst
}

// otsuThreshold picks the threshold maximizing between-class variance of the
// grayscale histogram.
func otsuThreshold(g *image.Gray) uint8 {
	var hist [256]int
	bounds := g.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 128
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[g.GrayAt(x, y).Y]++
		}
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}
	var sumBack, weightBack float64
	var best float64
	threshold := uint8(128)
	for i := 0; i < 256; i++ {
		weightBack += float64(hist[i])
		if weightBack == 0 {
			continue
		}
		weightFore := float64(total) - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(i) * float64(hist[i])
		meanBack := sumBack / weightBack
		meanFore := (sum - sumBack) / weightFore
		between := weightBack * weightFore * (meanBack - meanFore) * (meanBack - meanFore)
		if between > best {
			best = between
			threshold = uint8(i)
		}
	}
	return threshold
}

// binarize maps pixels above the threshold to white and the rest to black.
func binarize(g *image.Gray, threshold uint8) *image.Gray {
	return mapPixels(g, func(v uint8) uint8 {
		if v > threshold {
			return 255
		}
		return 0
	})
}

// binarizeInverted maps dark pixels (glyphs) to white foreground.
func binarizeInverted(g *image.Gray, threshold uint8) *image.Gray {
	return mapPixels(g, func(v uint8) uint8 {
		if v <= threshold {
			return 255
		}
		return 0
	})
}

func mapPixels(g *image.Gray, f func(uint8) uint8) *image.Gray {
	bounds := g.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetGray(x, y, color.Gray{Y: f(g.GrayAt(x, y).Y)})
		}
	}
	return out
}

// closeRect performs morphological closing (dilate then erode) with a
// kw x kh rectangular kernel over a binary image.
func closeRect(bin *image.Gray, kw, kh int) *image.Gray {
	return erodeRect(dilateRect(bin, kw, kh), kw, kh)
}

func dilateRect(bin *image.Gray, kw, kh int) *image.Gray {
	return morph(bin, kw, kh, true)
}

func erodeRect(bin *image.Gray, kw, kh int) *image.Gray {
	return morph(bin, kw, kh, false)
}

// morph applies a rectangular structuring element. Dilation sets a pixel
// when any neighbor under the kernel is white; erosion requires all of them.
// Out-of-bounds neighbors count as black.
func morph(bin *image.Gray, kw, kh int, dilate bool) *image.Gray {
	bounds := bin.Bounds()
	out := image.NewGray(bounds)
	rx, ry := kw/2, kh/2
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hit := !dilate
		kernel:
			for dy := -ry; dy <= ry; dy++ {
				for dx := -rx; dx <= rx; dx++ {
					nx, ny := x+dx, y+dy
					white := nx >= bounds.Min.X && nx < bounds.Max.X &&
						ny >= bounds.Min.Y && ny < bounds.Max.Y &&
						bin.GrayAt(nx, ny).Y == 255
					if dilate && white {
						hit = true
						break kernel
					}
					if !dilate && !white {
						hit = false
						break kernel
					}
				}
			}
			v := uint8(0)
			if hit {
				v = 255
			}
			out.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return out
}

// components labels 4-connected white regions and returns their bounding
// boxes in scan order.
func components(bin *image.Gray) []image.Rectangle {
	bounds := bin.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	visited := make([]bool, w*h)
	index := func(x, y int) int { return (y-bounds.Min.Y)*w + (x - bounds.Min.X) }

	var boxes []image.Rectangle
	var stack []image.Point
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if visited[index(x, y)] || bin.GrayAt(x, y).Y != 255 {
				continue
			}
			box := image.Rect(x, y, x+1, y+1)
			stack = append(stack[:0], image.Pt(x, y))
			visited[index(x, y)] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				box = box.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
				for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < bounds.Min.X || nx >= bounds.Max.X || ny < bounds.Min.Y || ny >= bounds.Max.Y {
						continue
					}
					if !visited[index(nx, ny)] && bin.GrayAt(nx, ny).Y == 255 {
						visited[index(nx, ny)] = true
						stack = append(stack, image.Pt(nx, ny))
					}
				}
			}
			boxes = append(boxes, box)
		}
	}
	return boxes
}
