package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type localUploader struct {
	root          string
	publicBaseURL string
}

// NewLocalUploader stores files under dir. Public URLs are publicBaseURL + "/" + key.
func NewLocalUploader(dir, publicBaseURL string) (FileUploader, error) {
	if dir == "" {
		return nil, errors.New("invalid local storage configuration: directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory %q: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", abs, err)
	}
	return &localUploader{
		root:          abs,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (u *localUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	fullPath, err := u.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for key %s: %w", key, err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file for key %s: %w", key, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		_ = os.Remove(fullPath)
		return nil, fmt.Errorf("failed to write file for key %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(fullPath)
		return nil, fmt.Errorf("failed to close file for key %s: %w", key, err)
	}

	return &UploadResult{
		Key:      key,
		Location: u.GetPublicURL(key),
	}, nil
}

func (u *localUploader) Open(ctx context.Context, key string) (*Object, error) {
	fullPath, err := u.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open file for key %s: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat file for key %s: %w", key, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrObjectNotFound
	}
	return &Object{
		Body:        f,
		ContentType: ContentTypeForExtension(strings.TrimPrefix(path.Ext(key), ".")),
		Size:        info.Size(),
	}, nil
}

func (u *localUploader) Delete(ctx context.Context, key string) error {
	fullPath, err := u.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file for key %s: %w", key, err)
	}
	return nil
}

func (u *localUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return u.publicBaseURL + "/" + strings.TrimPrefix(key, "/")
}

// resolve maps a key to a path inside root; keys escaping root are rejected.
func (u *localUploader) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	full := filepath.Join(u.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	rel, err := filepath.Rel(u.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return full, nil
}
