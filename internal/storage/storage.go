// Package storage writes uploaded images to the public upload directory.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix 是 echo static 對外提供檔案的路徑
const PublicPrefix = "/uploads/"

var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

var (
	newName  = uuid.NewString
	mkdirAll = os.MkdirAll
)

type Uploader interface {
	// Save stores the file and returns its public path.
	Save(fh *multipart.FileHeader) (string, error)
	Remove(publicPath string) error
}

type DiskUploader struct {
	Dir string
}

func NewDiskUploader(dir string) (*DiskUploader, error) {
	if err := mkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("NewDiskUploader: %w", err)
	}
	return &DiskUploader{Dir: dir}, nil
}

func (d *DiskUploader) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("Save %q: %w", fh.Filename, ErrUnsupportedImage)
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	defer src.Close()

	name := newName() + ext
	dst, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("Save: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	return PublicPrefix + name, nil
}

// Remove 刪除以 Save 回傳路徑表示的檔案；不存在時忽略
func (d *DiskUploader) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, PublicPrefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(publicPath, PublicPrefix))
	err := os.Remove(filepath.Join(d.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("Remove: %w", err)
	}
	return nil
}

// FakeUploader 預設回傳 /uploads/<原檔名>
type FakeUploader struct {
	SaveFn   func(fh *multipart.FileHeader) (string, error)
	RemoveFn func(publicPath string) error
	Saved    []string
	Removed  []string
}

func (f *FakeUploader) Save(fh *multipart.FileHeader) (string, error) {
	if f.SaveFn != nil {
		return f.SaveFn(fh)
	}
	p := PublicPrefix + fh.Filename
	f.Saved = append(f.Saved, p)
	return p, nil
}

func (f *FakeUploader) Remove(publicPath string) error {
	f.Removed = append(f.Removed, publicPath)
	if f.RemoveFn != nil {
		return f.RemoveFn(publicPath)
	}
	return nil
}
