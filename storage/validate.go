package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize - максимальный размер загружаемого изображения (10 МБ).
const MaxImageSize int64 = 10 << 20

var (
	ErrUnsupportedFileType = errors.New("unsupported file type, allowed: png, jpg, jpeg, gif")
	ErrFileTooLarge        = errors.New("file is larger than 10 MB")
	ErrEmptyFile           = errors.New("no file selected")
)

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// ImageExtension returns the lower-cased extension of filename without the dot
// if it is one of the allowed image types.
func ImageExtension(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if _, ok := imageContentTypes[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, filename)
	}
	return ext, nil
}

// ValidateImage checks the file name and size of an upload and returns its extension.
func ValidateImage(filename string, size int64) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", ErrEmptyFile
	}
	ext, err := ImageExtension(filename)
	if err != nil {
		return "", err
	}
	if size > MaxImageSize {
		return "", ErrFileTooLarge
	}
	return ext, nil
}

func ContentTypeForExtension(ext string) string {
	if ct, ok := imageContentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// PlayerAvatarKeyPrefix is the common prefix of avatars uploaded while sportID was active.
func PlayerAvatarKeyPrefix(sportID int) string {
	return fmt.Sprintf("players/player_%d_", sportID)
}

// PlayerAvatarKey builds a unique key for a player avatar of the given sport.
func PlayerAvatarKey(sportID int, ext string) string {
	return fmt.Sprintf("%s%s.%s", PlayerAvatarKeyPrefix(sportID), uuid.NewString(), ext)
}

func FoodImageKeyPrefix(userID int) string {
	return fmt.Sprintf("foods/food_%d_", userID)
}

// FoodImageKey builds a unique key for a food photo of the given user.
func FoodImageKey(userID int, ext string) string {
	return fmt.Sprintf("%s%s.%s", FoodImageKeyPrefix(userID), uuid.NewString(), ext)
}
