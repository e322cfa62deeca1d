package fsxlocal

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/fsx"
)

// LocalFileSystem implements fsx.FileSystem on local disk under a base directory
type LocalFileSystem struct {
	basePath string
}

// NewLocalFileSystem creates basePath if needed and roots all paths there
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fsx.Failed(fsx.ErrWriteFailed, basePath, err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fsx.Failed(fsx.ErrReadFailed, basePath, err)
	}
	return &LocalFileSystem{basePath: abs}, nil
}

func (fs *LocalFileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(fs.fullPath(path))
	if err != nil {
		return nil, fs.mapErr(fsx.ErrReadFailed, path, err)
	}
	return data, nil
}

func (fs *LocalFileSystem) ReadFileStream(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(fs.fullPath(path))
	if err != nil {
		return nil, fs.mapErr(fsx.ErrReadFailed, path, err)
	}
	return f, nil
}

func (fs *LocalFileSystem) Stat(_ context.Context, path string) (fsx.FileInfo, error) {
	info, err := os.Stat(fs.fullPath(path))
	if err != nil {
		return fsx.FileInfo{}, fs.mapErr(fsx.ErrReadFailed, path, err)
	}
	return fsx.FileInfo{
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: fsx.DetectContentType(info.Name(), nil),
	}, nil
}

func (fs *LocalFileSystem) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(fs.fullPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fsx.Failed(fsx.ErrReadFailed, path, err)
}

func (fs *LocalFileSystem) WriteFile(_ context.Context, path string, data []byte) error {
	full := fs.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fsx.Failed(fsx.ErrWriteFailed, path, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fsx.Failed(fsx.ErrWriteFailed, path, err)
	}
	return nil
}

func (fs *LocalFileSystem) WriteFileStream(_ context.Context, path string, r io.Reader) error {
	full := fs.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fsx.Failed(fsx.ErrWriteFailed, path, err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fsx.Failed(fsx.ErrWriteFailed, path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fsx.Failed(fsx.ErrWriteFailed, path, err)
	}
	return nil
}

func (fs *LocalFileSystem) DeleteFile(_ context.Context, path string) error {
	if err := os.Remove(fs.fullPath(path)); err != nil && !os.IsNotExist(err) {
		return fsx.Failed(fsx.ErrDelete, path, err)
	}
	return nil
}

func (fs *LocalFileSystem) Join(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}

func (fs *LocalFileSystem) GetBasePath() string {
	return fs.basePath
}

// fullPath roots path under the base directory; ".." segments cannot escape it
func (fs *LocalFileSystem) fullPath(path string) string {
	clean := filepath.Clean("/" + strings.TrimPrefix(filepath.FromSlash(path), string(filepath.Separator)))
	return filepath.Join(fs.basePath, clean)
}

func (fs *LocalFileSystem) mapErr(code *errx.ErrorCode, path string, err error) error {
	if os.IsNotExist(err) {
		return fsx.NotFound(path)
	}
	return fsx.Failed(code, path, err)
}
