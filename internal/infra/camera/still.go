package camera

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/yanqian/ar-shop/internal/domain/skintone"
)

// StillCamera replays one frame, e.g. a photo on disk.
type StillCamera struct {
	frame skintone.Frame
}

// NewStillCamera serves frame on every read.
func NewStillCamera(frame skintone.Frame) *StillCamera {
	return &StillCamera{frame: frame}
}

// OpenStillCamera decodes a PNG or JPEG file.
func OpenStillCamera(path string) (*StillCamera, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read still image: %w", err)
	}
	frame, err := skintone.DecodeFrame(data)
	if err != nil {
		return nil, err
	}
	return NewStillCamera(frame), nil
}

func (c *StillCamera) Acquire(ctx context.Context) (skintone.FrameSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &stillSource{frame: c.frame}, nil
}

type stillSource struct {
	mu       sync.Mutex
	frame    skintone.Frame
	released bool
}

func (s *stillSource) NextFrame(ctx context.Context) (skintone.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return skintone.Frame{}, skintone.ErrSourceReleased
	}
	if err := ctx.Err(); err != nil {
		return skintone.Frame{}, err
	}
	out := s.frame
	out.Pix = slices.Clone(s.frame.Pix)
	return out, nil
}

func (s *stillSource) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return skintone.ErrSourceReleased
	}
	s.released = true
	return nil
}

// Unavailable is the camera of a host without capture hardware.
type Unavailable struct{}

func (Unavailable) Acquire(context.Context) (skintone.FrameSource, error) {
	return nil, skintone.ErrUnsupportedDevice
}

var (
	_ skintone.Camera = (*StillCamera)(nil)
	_ skintone.Camera = Unavailable{}
)
