package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ar-shop/internal/domain/skintone"
	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

type analyzeRequest struct {
	Image        string `json:"image"`
	SaveSnapshot bool   `json:"saveSnapshot"`
}

type captureRequest struct {
	SaveSnapshot bool `json:"saveSnapshot"`
}

type captureEvent struct {
	Progress int                `json:"progress"`
	Analysis *skintone.Analysis `json:"analysis,omitempty"`
	Error    map[string]any     `json:"error,omitempty"`
}

// AnalyzeSkinTone classifies an uploaded frame, sent either as a multipart "frame" file or
// as a JSON data URL.
func (h *Handler) AnalyzeSkinTone(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)

	var (
		data []byte
		opts skintone.AnalyzeOptions
		err  error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		data, opts, err = readMultipartFrame(c)
	} else {
		var req analyzeRequest
		if err = c.ShouldBindJSON(&req); err == nil {
			data = []byte(req.Image)
			opts.SaveSnapshot = req.SaveSnapshot
		}
	}
	if err != nil {
		invalidRequest(c, err)
		return
	}
	if len(data) == 0 {
		invalidRequest(c, fmt.Errorf("image is required"))
		return
	}

	frame, err := skintone.DecodeFrameLimit(data, h.cfg.MaxFramePixels)
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodeInvalidInput, "could not decode image", err))
		return
	}
	userID, _ := currentUser(c)
	analysis, err := h.skinTone.AnalyzeFrame(c.Request.Context(), userID, frame, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func readMultipartFrame(c *gin.Context) ([]byte, skintone.AnalyzeOptions, error) {
	var opts skintone.AnalyzeOptions
	header, err := c.FormFile("frame")
	if err != nil {
		return nil, opts, fmt.Errorf("frame file is required: %w", err)
	}
	file, err := header.Open()
	if err != nil {
		return nil, opts, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, opts, err
	}
	if raw := c.PostForm("saveSnapshot"); raw != "" {
		opts.SaveSnapshot, _ = strconv.ParseBool(raw)
	}
	return data, opts, nil
}

// CaptureSkinTone reads a frame from the server camera. Clients asking for
// text/event-stream receive progress events before the result.
func (h *Handler) CaptureSkinTone(c *gin.Context) {
	var req captureRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidRequest(c, err)
			return
		}
	}
	opts := skintone.AnalyzeOptions{SaveSnapshot: req.SaveSnapshot}
	userID, _ := currentUser(c)

	if !strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		analysis, err := h.skinTone.Capture(c.Request.Context(), userID, opts, nil)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, analysis)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "stream_unsupported", "streaming not supported", nil))
		return
	}
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	events := make(chan captureEvent, 16)
	go func() {
		defer close(events)
		analysis, err := h.skinTone.Capture(c.Request.Context(), userID, opts, func(percent int) {
			select {
			case events <- captureEvent{Progress: percent}:
			default:
			}
		})
		if err != nil {
			status, code := statusFor(err)
			body := map[string]any{"code": code, "message": errMessage(err), "status": status}
			if captureErr, ok := skintone.AsCaptureError(err); ok {
				body["recovery"] = captureErr.Recovery
			}
			events <- captureEvent{Error: body}
			return
		}
		events <- captureEvent{Progress: 100, Analysis: &analysis}
	}()

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			h.logger.Error("marshal capture event failed", "error", err)
			continue
		}
		c.Writer.Write([]byte("data: "))
		c.Writer.Write(payload)
		c.Writer.Write([]byte("\n\n"))
		flusher.Flush()
	}
}

// DemoSkinTone returns the fixed demo analysis.
func (h *Handler) DemoSkinTone(c *gin.Context) {
	c.JSON(http.StatusOK, h.skinTone.Demo())
}
