package skintone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	apperrors "github.com/yanqian/ar-shop/pkg/errors"
	"github.com/yanqian/ar-shop/pkg/util"
)

const (
	actionAnalyzed   = "skin_tone_analyzed"
	analysisProduct  = "skin-tone-analysis"
	snapshotMimeType = "image/png"
)

// Config drives the analysis service.
type Config struct {
	Pipeline       PipelineConfig
	FallbackToDemo bool
	SnapshotPrefix string
}

// SnapshotStore keeps captured frames.
type SnapshotStore interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (string, error)
}

// SessionLogger records analysis sessions for signed-in users.
type SessionLogger interface {
	Log(ctx context.Context, userID int64, productID, action string, data map[string]any) error
}

// Service exposes skin tone analysis workflows.
type Service interface {
	AnalyzeFrame(ctx context.Context, userID int64, frame Frame, opts AnalyzeOptions) (Analysis, error)
	Capture(ctx context.Context, userID int64, opts AnalyzeOptions, progress ProgressFunc) (Analysis, error)
	Demo() Analysis
}

type service struct {
	cfg       Config
	camera    Camera
	pipeline  *Pipeline
	snapshots SnapshotStore
	sessions  SessionLogger
	logger    *slog.Logger
}

// NewService constructs a Service instance. snapshots and sessions may be nil.
func NewService(cfg Config, camera Camera, snapshots SnapshotStore, sessions SessionLogger, logger *slog.Logger) Service {
	if cfg.SnapshotPrefix == "" {
		cfg.SnapshotPrefix = "snapshots"
	}
	return &service{
		cfg:       cfg,
		camera:    camera,
		pipeline:  NewPipeline(cfg.Pipeline, logger),
		snapshots: snapshots,
		sessions:  sessions,
		logger:    logger.With("component", "skintone.service"),
	}
}

func (s *service) AnalyzeFrame(ctx context.Context, userID int64, frame Frame, opts AnalyzeOptions) (Analysis, error) {
	if err := frame.Validate(); err != nil {
		return Analysis{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid frame", err)
	}
	analysis := Analysis{
		ID:         util.NewID(),
		Result:     Classify(frame),
		AnalyzedAt: util.NowUTC(),
	}
	if opts.SaveSnapshot {
		key, err := s.storeSnapshot(ctx, userID, analysis.ID, frame)
		if err != nil {
			return Analysis{}, apperrors.Wrap(apperrors.CodeStorage, "failed to store snapshot", err)
		}
		analysis.SnapshotKey = key
	}
	s.logSession(ctx, userID, analysis)
	s.logger.Info("skin tone analyzed",
		"analysis_id", analysis.ID,
		"undertone", analysis.Result.Undertone,
		"depth", analysis.Result.Depth,
		"samples", analysis.Result.Samples,
	)
	return analysis, nil
}

func (s *service) Capture(ctx context.Context, userID int64, opts AnalyzeOptions, progress ProgressFunc) (Analysis, error) {
	if progress == nil {
		progress = func(int) {}
	}
	frame, err := s.pipeline.Capture(ctx, s.camera, progress)
	if err != nil {
		recovery := RecoveryFor(err)
		if recovery == RecoveryDemo && s.cfg.FallbackToDemo {
			s.logger.Warn("camera unavailable, returning demo result", "error", err)
			progress(100)
			return s.Demo(), nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Analysis{}, apperrors.Wrap(apperrors.CodeCaptureFailed, "capture cancelled", &CaptureError{Recovery: RecoveryNone, Err: err})
		}
		return Analysis{}, apperrors.Wrap(apperrors.CodeCaptureFailed, "capture failed", &CaptureError{Recovery: recovery, Err: err})
	}
	analysis, err := s.AnalyzeFrame(ctx, userID, frame, opts)
	if err != nil {
		return Analysis{}, err
	}
	progress(100)
	return analysis, nil
}

func (s *service) Demo() Analysis {
	return Analysis{
		ID:         util.NewID(),
		Result:     Demo(),
		Demo:       true,
		AnalyzedAt: util.NowUTC(),
	}
}

func (s *service) storeSnapshot(ctx context.Context, userID int64, analysisID string, frame Frame) (string, error) {
	if s.snapshots == nil {
		return "", errors.New("snapshot storage not configured")
	}
	data, err := EncodePNG(frame)
	if err != nil {
		return "", err
	}
	owner := "anonymous"
	if userID > 0 {
		owner = strconv.FormatInt(userID, 10)
	}
	key := fmt.Sprintf("%s/%s/%s.png", s.cfg.SnapshotPrefix, owner, analysisID)
	return s.snapshots.Put(ctx, key, data, snapshotMimeType)
}

func (s *service) logSession(ctx context.Context, userID int64, analysis Analysis) {
	if s.sessions == nil || userID <= 0 {
		return
	}
	err := s.sessions.Log(ctx, userID, analysisProduct, actionAnalyzed, map[string]any{
		"analysis_id": analysis.ID,
		"analysis_result": map[string]any{
			"undertone":  string(analysis.Result.Undertone),
			"depth":      string(analysis.Result.Depth),
			"confidence": analysis.Result.Confidence,
		},
	})
	if err != nil {
		s.logger.Warn("failed to log analysis session", "user_id", userID, "error", err)
	}
}

// CaptureError carries the recovery hint for a failed capture.
type CaptureError struct {
	Recovery Recovery
	Err      error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("%v (recovery: %s)", e.Err, e.Recovery)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// AsCaptureError extracts a CaptureError from err.
func AsCaptureError(err error) (*CaptureError, bool) {
	var captureErr *CaptureError
	if errors.As(err, &captureErr) {
		return captureErr, true
	}
	return nil, false
}
