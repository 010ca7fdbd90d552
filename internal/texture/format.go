// Package texture decodes MU texture containers and plain image files into
// NRGBA pixels, resolves texture names against mounted content and renders
// WebP previews.
package texture

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/h2non/filetype"
)

// Format names the image codec of a payload.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatTGA  Format = "tga"
	FormatBMP  Format = "bmp"
	FormatWebP Format = "webp"
	FormatTIFF Format = "tiff"
)

var (
	ErrTruncated   = errors.New("texture: container truncated")
	ErrUnsupported = errors.New("texture: unsupported file")
)

// Container header sizes.
const (
	ozjHeader = 24
	oztHeader = 4
)

// extensions lists every file extension the decoder accepts.
var extensions = map[string]bool{
	".ozj": true, ".ozt": true,
	".jpg": true, ".jpeg": true, ".png": true, ".tga": true,
	".bmp": true, ".webp": true, ".tif": true, ".tiff": true,
}

// Supported reports whether name has a texture extension.
func Supported(name string) bool {
	return extensions[strings.ToLower(path.Ext(name))]
}

// Sniff identifies a payload by its magic bytes. TGA carries no magic, so
// anything unrecognised is reported as TGA.
func Sniff(data []byte) Format {
	kind, err := filetype.Match(data)
	if err != nil {
		return FormatTGA
	}
	switch kind.Extension {
	case "jpg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "bmp":
		return FormatBMP
	case "webp":
		return FormatWebP
	case "tif":
		return FormatTIFF
	}
	return FormatTGA
}

// Unwrap strips MU container headers and reports the payload codec.
func Unwrap(name string, raw []byte) ([]byte, Format, error) {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(name, "\\", "/")))
	switch ext {
	case ".ozj":
		if len(raw) <= ozjHeader {
			return nil, "", fmt.Errorf("%w: %s", ErrTruncated, name)
		}
		payload := raw[ozjHeader:]
		if f := Sniff(payload); f != FormatTGA {
			return payload, f, nil
		}
		return payload, FormatJPEG, nil
	case ".ozt":
		if len(raw) <= oztHeader {
			return nil, "", fmt.Errorf("%w: %s", ErrTruncated, name)
		}
		return raw[oztHeader:], FormatTGA, nil
	case ".tga":
		return raw, FormatTGA, nil
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrTruncated, name)
	}
	return raw, Sniff(raw), nil
}
