package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/yanqian/ar-shop/internal/domain/skintone"
	"github.com/yanqian/ar-shop/internal/infra/camera"
	"github.com/yanqian/ar-shop/pkg/logger"
)

type rootOptions struct {
	logLevel string
}

type captureOptions struct {
	device      string
	inputFormat string
	width       int
	height      int
	still       string
	settle      time.Duration
	demo        bool
	snapshot    string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "skintone",
		Short:         "Classify skin undertone and depth from a photo or camera",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")

	root.AddCommand(
		newAnalyzeCommand(opts),
		newCaptureCommand(opts),
		newDemoCommand(),
	)
	return root
}

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <image>",
		Short: "Classify a PNG or JPEG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewText(cmd.ErrOrStderr(), root.logLevel)
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			frame, err := skintone.DecodeFrame(data)
			if err != nil {
				return err
			}
			log.Debug("frame decoded", "width", frame.Width, "height", frame.Height)
			return writeJSON(cmd.OutOrStdout(), skintone.Classify(frame))
		},
	}
}

func newCaptureCommand(root *rootOptions) *cobra.Command {
	opts := &captureOptions{}
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Grab a frame from a camera device and classify it",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewText(cmd.ErrOrStderr(), root.logLevel)
			cam, err := buildCamera(opts, log)
			if err != nil {
				return err
			}
			cfg := skintone.Config{
				Pipeline:       skintone.DefaultPipelineConfig(),
				FallbackToDemo: opts.demo,
			}
			cfg.Pipeline.SettleDelay = opts.settle

			snapshots := &fileSnapshots{path: opts.snapshot}
			svc := skintone.NewService(cfg, cam, snapshots, nil, log)

			bar := progressbar.NewOptions(100,
				progressbar.OptionSetDescription("analyzing"),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionClearOnFinish(),
			)
			analysis, err := svc.Capture(cmd.Context(), 0, skintone.AnalyzeOptions{SaveSnapshot: opts.snapshot != ""}, func(percent int) {
				_ = bar.Set(percent)
			})
			_ = bar.Finish()
			if err != nil {
				if captureErr, ok := skintone.AsCaptureError(err); ok {
					return fmt.Errorf("%w (suggested recovery: %s)", err, captureErr.Recovery)
				}
				return err
			}
			return writeJSON(cmd.OutOrStdout(), analysis)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.device, "device", "/dev/video0", "capture device passed to ffmpeg")
	flags.StringVar(&opts.inputFormat, "format", "v4l2", "ffmpeg input format")
	flags.IntVar(&opts.width, "width", 0, "frame width (probed when zero)")
	flags.IntVar(&opts.height, "height", 0, "frame height (probed when zero)")
	flags.StringVar(&opts.still, "still", "", "replay an image file instead of opening a device")
	flags.DurationVar(&opts.settle, "settle", 2*time.Second, "delay before the frame is read")
	flags.BoolVar(&opts.demo, "demo-fallback", false, "return the demo result when no camera is usable")
	flags.StringVar(&opts.snapshot, "snapshot", "", "write the captured frame as PNG to this path")
	return cmd
}

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Print the demo result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), skintone.Demo())
		},
	}
}

func buildCamera(opts *captureOptions, log *slog.Logger) (skintone.Camera, error) {
	if opts.still != "" {
		return camera.OpenStillCamera(opts.still)
	}
	return camera.NewFFmpegCamera(camera.FFmpegConfig{
		Device:      opts.device,
		InputFormat: opts.inputFormat,
		Width:       opts.width,
		Height:      opts.height,
	}, log), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
