package main

import (
	"context"
	"os"
)

// fileSnapshots writes the captured frame to a fixed local path.
type fileSnapshots struct {
	path string
}

func (s *fileSnapshots) Put(_ context.Context, _ string, data []byte, _ string) (string, error) {
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return "", err
	}
	return s.path, nil
}
