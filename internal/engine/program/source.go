package program

import (
	"context"
	"os"
	"path/filepath"
)

type diskReader struct{}

func (diskReader) ReadSource(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
