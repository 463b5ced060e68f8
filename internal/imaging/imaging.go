package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored item images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// Result contains the processed image data.
type Result struct {
	Data []byte
	MIME string
}

// Process validates the format by sniffing bytes, downscales the image if
// it exceeds MaxDimension, and re-encodes it. JPEG input stays JPEG; PNG
// input stays PNG so transparency survives.
func Process(data []byte) (*Result, error) {
	mime := http.DetectContentType(data)

	var img image.Image
	var err error
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported image type %q", mime)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = downscale(img)

	var buf bytes.Buffer
	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality})
	case "image/png":
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	return &Result{Data: buf.Bytes(), MIME: mime}, nil
}

// downscale shrinks img so neither side exceeds MaxDimension, preserving
// the aspect ratio. Images already within bounds are returned unchanged.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= MaxDimension && height <= MaxDimension {
		return img
	}

	scale := float64(MaxDimension) / float64(width)
	if height > width {
		scale = float64(MaxDimension) / float64(height)
	}
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
