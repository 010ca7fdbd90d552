package texture

import (
	"image"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Thumbnail scales img so its longer side is size pixels, keeping the
// aspect ratio. Filtering runs on premultiplied alpha so transparent texels
// do not bleed dark fringes. Images already within size are returned as is.
func Thumbnail(img *image.NRGBA, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if size <= 0 || (w <= size && h <= size) {
		return img
	}

	tw, th := size, size
	if w > h {
		th = max(1, h*size/w)
	} else if h > w {
		tw = max(1, w*size/h)
	}

	premul := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(premul, premul.Rect, img, b.Min, draw.Src)

	scaled := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(scaled, scaled.Rect, premul, premul.Rect, draw.Src, nil)

	out := image.NewNRGBA(scaled.Rect)
	draw.Draw(out, out.Rect, scaled, image.Point{}, draw.Src)
	return out
}

// EncodeWebP writes img as a lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}
