package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Params controls a single decode.
type Params struct {
	// Name is the source file name; its extension selects the container.
	Name           string
	FlipVertical   bool
	FlipHorizontal bool
}

// Pixels is tightly packed RGBA8 data, row-major from the top-left corner.
type Pixels struct {
	Width  int
	Height int
	Pix    []byte
}

// Decoder turns texture file bytes into pixels. It holds no per-call state
// and is safe for concurrent use.
type Decoder struct {
	log *slog.Logger
}

func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{log: logger}
}

// Decode returns the file's pixels as non-premultiplied RGBA8.
func (d *Decoder) Decode(data []byte, p Params) (Pixels, error) {
	img, err := d.DecodeImage(data, p)
	if err != nil {
		return Pixels{}, err
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	return Pixels{Width: w, Height: h, Pix: img.Pix[:w*h*4]}, nil
}

// DecodeImage is Decode returning an image anchored at (0,0).
func (d *Decoder) DecodeImage(data []byte, p Params) (*image.NRGBA, error) {
	payload, format, err := Unwrap(p.Name, data)
	if err != nil {
		return nil, err
	}

	src, err := decodePayload(payload, format)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s (%s): %w", p.Name, format, err)
	}
	img := toNRGBA(src)
	if p.FlipVertical {
		flipVertical(img)
	}
	if p.FlipHorizontal {
		flipHorizontal(img)
	}
	d.log.Debug("texture decoded", "name", p.Name, "format", format,
		"width", img.Rect.Dx(), "height", img.Rect.Dy())
	return img, nil
}

func decodePayload(payload []byte, f Format) (image.Image, error) {
	r := bytes.NewReader(payload)
	switch f {
	case FormatJPEG:
		return jpeg.Decode(r)
	case FormatPNG:
		return png.Decode(r)
	case FormatTGA:
		return tga.Decode(r)
	case FormatBMP:
		return bmp.Decode(r)
	case FormatWebP:
		return webp.Decode(r)
	case FormatTIFF:
		return tiff.Decode(r)
	}
	return nil, fmt.Errorf("%w: format %q", ErrUnsupported, f)
}

// toNRGBA copies src into a tightly packed NRGBA image at the origin.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}

func flipVertical(img *image.NRGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

func flipHorizontal(img *image.NRGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		line := img.Pix[y*img.Stride:]
		for l, r := 0, w-1; l < r; l, r = l+1, r-1 {
			a, b := line[l*4:l*4+4], line[r*4:r*4+4]
			for i := 0; i < 4; i++ {
				a[i], b[i] = b[i], a[i]
			}
		}
	}
}
