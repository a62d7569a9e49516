package skintone

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"strings"
)

// ErrInvalidImage is returned when uploaded bytes are not a decodable image.
var ErrInvalidImage = errors.New("invalid image data")

// DefaultMaxFramePixels bounds decoded frames when no explicit budget is given.
const DefaultMaxFramePixels = 4096 * 4096

// FrameFromImage copies any image into the RGBA frame layout.
func FrameFromImage(img image.Image) Frame {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return Frame{Width: bounds.Dx(), Height: bounds.Dy(), Pix: rgba.Pix}
}

// Image exposes the frame as an *image.RGBA sharing the same buffer.
func (f Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// DecodeFrame decodes PNG or JPEG bytes. A "data:image/...;base64," prefix, as produced by
// canvas exports, is accepted too.
func DecodeFrame(data []byte) (Frame, error) {
	return DecodeFrameLimit(data, DefaultMaxFramePixels)
}

// DecodeFrameLimit is DecodeFrame with an explicit pixel budget. The header is read first so
// oversized frames are rejected before any pixel buffer is allocated.
func DecodeFrameLimit(data []byte, maxPixels int) (Frame, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxFramePixels
	}
	raw, err := stripDataURL(data)
	if err != nil {
		return Frame{}, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return Frame{}, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", ErrInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	frame := FrameFromImage(img)
	if err := frame.Validate(); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return frame, nil
}

// EncodePNG serializes a frame for snapshot storage.
func EncodePNG(frame Frame) ([]byte, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stripDataURL(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("data:")) {
		return trimmed, nil
	}
	comma := bytes.IndexByte(trimmed, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: malformed data url", ErrInvalidImage)
	}
	header := string(trimmed[:comma])
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: data url must be base64 encoded", ErrInvalidImage)
	}
	decoded, err := base64.StdEncoding.DecodeString(string(trimmed[comma+1:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return decoded, nil
}
