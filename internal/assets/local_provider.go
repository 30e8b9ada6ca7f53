// Package assets stores uploaded image files.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/khanghh/photoshare/internal/images"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalProvider keeps assets in a directory that is served under publicPath.
type LocalProvider struct {
	dir        string
	publicPath string
}

func (p *LocalProvider) Upload(ctx context.Context, content io.Reader, filename string) (*images.Asset, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	publicID := uuid.NewString() + ext
	dst := filepath.Join(p.dir, publicID)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(f, content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n == 0 {
		err = images.ErrEmptyFile
	}
	if err != nil {
		os.Remove(dst)
		return nil, err
	}
	return &images.Asset{
		PublicID: publicID,
		URL:      path.Join(p.publicPath, publicID),
	}, nil
}

func (p *LocalProvider) Delete(ctx context.Context, publicID string) error {
	if publicID == "" || publicID != filepath.Base(publicID) {
		return fs.ErrInvalid
	}
	err := os.Remove(filepath.Join(p.dir, publicID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func NewLocalProvider(dir string, publicPath string) (*LocalProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalProvider{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}
