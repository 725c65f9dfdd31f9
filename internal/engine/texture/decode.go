// Package texture provides image decoding and texture processing utilities.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/Faultbox/blockwalk/internal/engine/mesh"
)

// ErrUnsupportedFormat is returned for image types with no decoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

type decodeFunc func(io.Reader) (image.Image, error)

// Decoders are picked by extension: TGA has no magic number, so sniffing
// through image.Decode cannot tell it apart from the other formats.
var decoders = map[string]decodeFunc{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".tga":  decodeTGA,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
}

var mimeExtensions = map[string]string{
	"image/png":   ".png",
	"image/jpeg":  ".jpg",
	"image/bmp":   ".bmp",
	"image/tiff":  ".tiff",
	"image/webp":  ".webp",
	"image/x-tga": ".tga",
}

// ExtensionForMIME maps an image MIME type to a decodable extension.
func ExtensionForMIME(mime string) (string, bool) {
	ext, ok := mimeExtensions[strings.ToLower(mime)]
	return ext, ok
}

// Supported reports whether name has a decodable extension.
func Supported(name string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Decode decodes r using the decoder for name's extension.
func Decode(r io.Reader, name string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(name))
	dec, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	img, err := dec(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// tgaMinSize is the header plus the TGA 2.0 footer. The decoder always
// seeks back over a footer, so smaller files fail inside it.
const tgaMinSize = 18 + 26

// decodeTGA pads files shorter than tgaMinSize with an empty footer, which
// the decoder treats as a plain TGA 1.0 file.
func decodeTGA(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < tgaMinSize {
		data = append(data, make([]byte, 26)...)
	}
	return tga.Decode(bytes.NewReader(data))
}

// ImageToRGBA converts any image.Image to *image.RGBA with its origin at
// (0, 0). If flipY is set the rows are reversed, since OpenGL addresses
// textures from the bottom-left.
func ImageToRGBA(img image.Image, flipY bool) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	if flipY {
		FlipRows(rgba.Pix, rgba.Stride, rgba.Rect.Dy())
	}
	return rgba
}

// FlipRows reverses the order of height rows of stride bytes in place.
func FlipRows(pix []byte, stride, height int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// Load decodes an image into a texture ready for upload.
func Load(r io.Reader, name string) (*mesh.Texture, error) {
	img, err := Decode(r, name)
	if err != nil {
		return nil, err
	}
	rgba := ImageToRGBA(img, true)
	return &mesh.Texture{
		Source: name,
		Width:  rgba.Rect.Dx(),
		Height: rgba.Rect.Dy(),
		Pix:    rgba.Pix,
	}, nil
}

// White returns a 1×1 opaque white texture, used for untextured meshes.
func White() *mesh.Texture {
	return &mesh.Texture{
		Source: "white",
		Width:  1,
		Height: 1,
		Pix:    []byte{255, 255, 255, 255},
	}
}
