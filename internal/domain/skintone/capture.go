package skintone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrPermissionDenied means the user or OS refused camera access.
	ErrPermissionDenied = errors.New("camera permission denied")
	// ErrUnsupportedDevice means no usable capture device exists.
	ErrUnsupportedDevice = errors.New("camera not supported on this device")
	// ErrFrameUnavailable means the stream is open but has no decoded frame yet.
	ErrFrameUnavailable = errors.New("camera frame not ready")
	// ErrSourceReleased is returned by frame sources used after Release.
	ErrSourceReleased = errors.New("frame source already released")
)

// Camera hands out exclusive frame sources.
type Camera interface {
	Acquire(ctx context.Context) (FrameSource, error)
}

// FrameSource is an acquired capture stream. Release must be called exactly once.
type FrameSource interface {
	NextFrame(ctx context.Context) (Frame, error)
	Release() error
}

// Recovery tells callers what to do after a capture failure.
type Recovery string

const (
	RecoveryNone  Recovery = "none"
	RecoveryRetry Recovery = "retry"
	RecoveryDemo  Recovery = "demo"
)

// RecoveryFor classifies capture errors.
func RecoveryFor(err error) Recovery {
	switch {
	case err == nil:
		return RecoveryNone
	case errors.Is(err, ErrFrameUnavailable):
		return RecoveryRetry
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrUnsupportedDevice):
		return RecoveryDemo
	default:
		return RecoveryNone
	}
}

// PipelineConfig controls the capture pipeline timing.
type PipelineConfig struct {
	ProgressInterval time.Duration
	ProgressStep     int
	ProgressCap      int
	SettleDelay      time.Duration
	FrameRetries     int
}

// DefaultPipelineConfig mirrors the in-browser analyzer: +10 every 200ms up to 90,
// two seconds of settling before the frame is read.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ProgressInterval: 200 * time.Millisecond,
		ProgressStep:     10,
		ProgressCap:      90,
		SettleDelay:      2 * time.Second,
		FrameRetries:     3,
	}
}

// Pipeline drives one camera capture from acquisition to a decoded frame.
type Pipeline struct {
	cfg    PipelineConfig
	logger *slog.Logger
}

// NewPipeline fills zero values from DefaultPipelineConfig. SettleDelay keeps zero.
func NewPipeline(cfg PipelineConfig, logger *slog.Logger) *Pipeline {
	def := DefaultPipelineConfig()
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = def.ProgressInterval
	}
	if cfg.ProgressStep <= 0 {
		cfg.ProgressStep = def.ProgressStep
	}
	if cfg.ProgressCap <= 0 || cfg.ProgressCap >= 100 {
		cfg.ProgressCap = def.ProgressCap
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	if cfg.FrameRetries < 0 {
		cfg.FrameRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, logger: logger.With("component", "skintone.pipeline")}
}

// Capture acquires the camera, reports simulated progress and returns one frame. The
// source is released on every path once acquired, and the progress goroutine has exited
// by the time Capture returns.
func (p *Pipeline) Capture(ctx context.Context, camera Camera, progress ProgressFunc) (frame Frame, err error) {
	if camera == nil {
		return Frame{}, ErrUnsupportedDevice
	}
	if progress == nil {
		progress = func(int) {}
	}

	source, err := camera.Acquire(ctx)
	if err != nil {
		return Frame{}, fmt.Errorf("acquire camera: %w", err)
	}
	defer func() {
		if releaseErr := source.Release(); releaseErr != nil {
			p.logger.Warn("release frame source failed", "error", releaseErr)
		}
	}()

	stop := p.startProgress(progress)
	defer stop()

	if err := sleepCtx(ctx, p.cfg.SettleDelay); err != nil {
		return Frame{}, err
	}

	for attempt := 0; ; attempt++ {
		frame, err = source.NextFrame(ctx)
		if err == nil {
			return frame, nil
		}
		if !errors.Is(err, ErrFrameUnavailable) || attempt >= p.cfg.FrameRetries {
			return Frame{}, fmt.Errorf("read frame: %w", err)
		}
		p.logger.Debug("frame not ready, retrying", "attempt", attempt+1)
		if err := sleepCtx(ctx, p.cfg.ProgressInterval); err != nil {
			return Frame{}, err
		}
	}
}

func (p *Pipeline) startProgress(progress ProgressFunc) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(p.cfg.ProgressInterval)
		defer ticker.Stop()
		current := 0
		progress(current)
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if current >= p.cfg.ProgressCap {
					continue
				}
				current = min(current+p.cfg.ProgressStep, p.cfg.ProgressCap)
				progress(current)
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
