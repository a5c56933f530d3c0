package media

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// LocalSink writes objects under Dir; they are served by the /media route.
type LocalSink struct {
	Dir     string
	BaseURL string
}

func NewLocalSink(dir string) *LocalSink {
	return &LocalSink{Dir: dir, BaseURL: "/media"}
}

func (s *LocalSink) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	full := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write media: %w", err)
	}
	return path.Join(s.BaseURL, key), nil
}
