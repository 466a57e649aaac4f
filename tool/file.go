package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ai "github.com/xpand-io/bedrockai"
)

// FileToolOption configures the file read tool.
type FileToolOption func(*fileToolConfig)

type fileToolConfig struct {
	basePath    string
	maxFileSize int64
}

// WithBasePath restricts file access to the given directory. Paths are
// resolved relative to it and may not escape it.
func WithBasePath(path string) FileToolOption {
	return func(cfg *fileToolConfig) {
		cfg.basePath = path
	}
}

// WithMaxFileSize caps readable file size in bytes. Default 10MB.
func WithMaxFileSize(n int64) FileToolOption {
	return func(cfg *fileToolConfig) {
		cfg.maxFileSize = n
	}
}

type readFileArgs struct {
	Path string `json:"path" desc:"Path of the file to read" required:"true"`
}

// NewReadFileTool creates a read_file tool returning file contents as text.
func NewReadFileTool(opts ...FileToolOption) (ai.Tool, Handler) {
	cfg := &fileToolConfig{maxFileSize: 10 << 20}
	for _, opt := range opts {
		opt(cfg)
	}

	return MustBind("read_file", "Read a file and return its contents",
		func(ctx context.Context, args readFileArgs) (any, error) {
			path := args.Path
			if cfg.basePath != "" {
				resolved, err := resolveWithin(cfg.basePath, path)
				if err != nil {
					return nil, err
				}
				path = resolved
			}

			info, err := os.Stat(path)
			if err != nil {
				return nil, err
			}
			if info.IsDir() {
				return nil, fmt.Errorf("%s is a directory", args.Path)
			}
			if info.Size() > cfg.maxFileSize {
				return nil, fmt.Errorf("%s exceeds maximum file size of %d bytes", args.Path, cfg.maxFileSize)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			return string(data), nil
		})
}

// resolveWithin joins path onto base and rejects escapes above base.
func resolveWithin(base, path string) (string, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	joined := filepath.Clean(filepath.Join(abs, path))
	if joined != abs && !strings.HasPrefix(joined, abs+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the allowed directory", path)
	}
	return joined, nil
}
