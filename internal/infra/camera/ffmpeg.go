package camera

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/yanqian/ar-shop/internal/domain/skintone"
)

// FFmpegConfig selects a capture device.
type FFmpegConfig struct {
	Device       string
	InputFormat  string
	Width        int
	Height       int
	ProbeTimeout time.Duration
}

// FFmpegCamera grabs single RGBA frames through the ffmpeg binary.
type FFmpegCamera struct {
	cfg    FFmpegConfig
	logger *slog.Logger
}

// NewFFmpegCamera constructs a camera for cfg.Device, e.g. /dev/video0 with the v4l2 format.
func NewFFmpegCamera(cfg FFmpegConfig, logger *slog.Logger) *FFmpegCamera {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	return &FFmpegCamera{cfg: cfg, logger: logger.With("component", "camera.ffmpeg")}
}

type probeResult struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Acquire checks device access and resolves the frame size.
func (c *FFmpegCamera) Acquire(ctx context.Context) (skintone.FrameSource, error) {
	if strings.TrimSpace(c.cfg.Device) == "" {
		return nil, skintone.ErrUnsupportedDevice
	}
	if err := checkDevice(c.cfg.Device); err != nil {
		return nil, err
	}
	width, height := c.cfg.Width, c.cfg.Height
	if width <= 0 || height <= 0 {
		w, h, err := c.probe()
		if err != nil {
			return nil, err
		}
		width, height = w, h
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.logger.Debug("camera acquired", "device", c.cfg.Device, "width", width, "height", height)
	return &ffmpegSource{cfg: c.cfg, width: width, height: height}, nil
}

func (c *FFmpegCamera) probe() (int, int, error) {
	kwargs := ffmpeg.KwArgs{}
	if c.cfg.InputFormat != "" {
		kwargs["f"] = c.cfg.InputFormat
	}
	raw, err := ffmpeg.ProbeWithTimeout(c.cfg.Device, c.cfg.ProbeTimeout, kwargs)
	if err != nil {
		sentinel := classifyStderr(err.Error())
		if sentinel == nil {
			sentinel = skintone.ErrUnsupportedDevice
		}
		return 0, 0, fmt.Errorf("%w: probe %s: %v", sentinel, c.cfg.Device, err)
	}
	var result probeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return 0, 0, fmt.Errorf("parse probe output: %w", err)
	}
	for _, stream := range result.Streams {
		if stream.CodecType == "video" && stream.Width > 0 && stream.Height > 0 {
			return stream.Width, stream.Height, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: no video stream on %s", skintone.ErrUnsupportedDevice, c.cfg.Device)
}

// checkDevice maps filesystem errors on device nodes to capture errors. Non-path inputs
// (URLs, avfoundation indexes) are left to ffmpeg.
func checkDevice(device string) error {
	if !strings.HasPrefix(device, "/") {
		return nil
	}
	f, err := os.Open(device)
	switch {
	case err == nil:
		return f.Close()
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", skintone.ErrPermissionDenied, err)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", skintone.ErrUnsupportedDevice, err)
	default:
		return err
	}
}

type ffmpegSource struct {
	cfg    FFmpegConfig
	width  int
	height int

	grab sync.Mutex

	mu       sync.Mutex
	released bool
	cancel   context.CancelFunc
}

// NextFrame runs one ffmpeg grab. A short read means the device has no frame yet.
func (s *ffmpegSource) NextFrame(ctx context.Context) (skintone.Frame, error) {
	s.grab.Lock()
	defer s.grab.Unlock()

	grabCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return skintone.Frame{}, skintone.ErrSourceReleased
	}
	s.cancel = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
	}()

	inArgs := ffmpeg.KwArgs{}
	if s.cfg.InputFormat != "" {
		inArgs["f"] = s.cfg.InputFormat
	}
	var out, stderr bytes.Buffer
	stream := ffmpeg.Input(s.cfg.Device, inArgs).
		Output("pipe:1", ffmpeg.KwArgs{
			"format":   "rawvideo",
			"pix_fmt":  "rgba",
			"frames:v": 1,
			"s":        fmt.Sprintf("%dx%d", s.width, s.height),
		}).
		WithOutput(&out).
		WithErrorOutput(&stderr)
	stream.Context = grabCtx

	if err := stream.Run(); err != nil {
		if ctx.Err() != nil {
			return skintone.Frame{}, ctx.Err()
		}
		if grabCtx.Err() != nil {
			return skintone.Frame{}, skintone.ErrSourceReleased
		}
		return skintone.Frame{}, grabError(err, stderr.String())
	}
	want := s.width * s.height * 4
	if out.Len() < want {
		return skintone.Frame{}, fmt.Errorf("%w: got %d of %d bytes", skintone.ErrFrameUnavailable, out.Len(), want)
	}
	return skintone.Frame{Width: s.width, Height: s.height, Pix: out.Bytes()[:want]}, nil
}

// Release stops the source and kills an in-flight ffmpeg process.
func (s *ffmpegSource) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return skintone.ErrSourceReleased
	}
	s.released = true
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

var (
	permissionMarkers = []string{
		"permission denied",
		"operation not permitted",
		"not authorized",
	}
	unsupportedMarkers = []string{
		"no such file or directory",
		"device or resource busy",
		"inappropriate ioctl",
		"cannot open video device",
		"no such device",
		"unknown input format",
	}
)

// classifyStderr maps ffmpeg diagnostics to capture sentinels. It returns nil for output
// that names no known device condition.
func classifyStderr(stderr string) error {
	lower := strings.ToLower(stderr)
	for _, marker := range permissionMarkers {
		if strings.Contains(lower, marker) {
			return skintone.ErrPermissionDenied
		}
	}
	for _, marker := range unsupportedMarkers {
		if strings.Contains(lower, marker) {
			return skintone.ErrUnsupportedDevice
		}
	}
	return nil
}

func grabError(err error, stderr string) error {
	if sentinel := classifyStderr(stderr); sentinel != nil {
		return fmt.Errorf("%w: %s", sentinel, lastLine(stderr))
	}
	return fmt.Errorf("ffmpeg grab: %w: %s", err, lastLine(stderr))
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

var _ skintone.Camera = (*FFmpegCamera)(nil)
