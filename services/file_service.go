package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Dosada05/team-manager/storage"
)

type FileService interface {
	OpenFile(ctx context.Context, scope Scope, key string) (*storage.Object, error)
	OpenImage(ctx context.Context, name string) (*storage.Object, error)
}

type fileService struct {
	uploader storage.FileUploader
	images   storage.FileUploader
}

// NewFileService serves uploads from uploader and the static sport images
// from images. images may be nil when no image directory is configured.
func NewFileService(uploader, images storage.FileUploader) FileService {
	return &fileService{uploader: uploader, images: images}
}

// OpenFile opens a stored upload. Only sessions with an active sport may read files.
func (s *fileService) OpenFile(ctx context.Context, scope Scope, key string) (*storage.Object, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	return openObject(ctx, s.uploader, key, "open file")
}

// OpenImage opens a static sport image by file name. Images are public.
func (s *fileService) OpenImage(ctx context.Context, name string) (*storage.Object, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, ErrFileNotFound
	}
	if _, err := storage.ImageExtension(name); err != nil {
		return nil, ErrImageTypeForbidden
	}
	if s.images == nil {
		return nil, ErrFileNotFound
	}
	return openObject(ctx, s.images, name, "open image")
}

func openObject(ctx context.Context, store storage.FileUploader, key, op string) (*storage.Object, error) {
	obj, err := store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, ErrFileNotFound
		}
		return nil, storageFailure(op, err)
	}
	return obj, nil
}
