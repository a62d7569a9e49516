package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ar-shop/internal/domain/skintone"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	frame := skintone.NewFrame(48, 48)
	frame.Fill(180, 120, 90)
	data, err := skintone.EncodePNG(frame)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "face.png")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := run(t, "analyze", writeFixture(t))
	require.NoError(t, err)

	var result skintone.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, skintone.UndertoneWarm, result.Undertone)
	require.Equal(t, "#b4785a", result.Hex)
}

func TestAnalyzeCommandRequiresFile(t *testing.T) {
	_, err := run(t, "analyze")
	require.Error(t, err)

	_, err = run(t, "analyze", filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}

func TestCaptureFromStillWritesSnapshot(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "snap.png")
	out, err := run(t, "capture", "--still", writeFixture(t), "--settle", "0s", "--snapshot", snapshot)
	require.NoError(t, err)

	var analysis skintone.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	require.Equal(t, skintone.DepthMedium, analysis.Result.Depth)
	require.Equal(t, snapshot, analysis.SnapshotKey)
	require.FileExists(t, snapshot)
}

func TestDemoCommand(t *testing.T) {
	out, err := run(t, "demo")
	require.NoError(t, err)
	require.Contains(t, out, "#D4A574")
}
