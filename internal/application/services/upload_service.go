package services

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/riii-services/backend/internal/domain/providers"
	apperrors "github.com/riii-services/backend/pkg/errors"
	"github.com/riii-services/backend/pkg/utils"
)

var slashRun = regexp.MustCompile(`/+`)

// Upload is a stored object
type Upload struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// UploadService stores admin image uploads
type UploadService struct {
	storage providers.FileStorage
	now     func() time.Time
}

// NewUploadService creates a new upload service. storage may be nil.
func NewUploadService(storage providers.FileStorage) *UploadService {
	return &UploadService{storage: storage, now: time.Now}
}

// ObjectKey builds folder/<unix-millis>-<sanitized name>
func (s *UploadService) ObjectKey(folder, filename string) string {
	key := fmt.Sprintf("%s/%d-%s", strings.TrimSpace(folder), s.now().UnixMilli(), utils.SanitizeFileName(filename))
	if loc := slashRun.FindStringIndex(key); loc != nil {
		key = key[:loc[0]] + "/" + key[loc[1]:]
	}
	return strings.TrimPrefix(key, "/")
}

// Upload stores body and returns its public URL and object key
func (s *UploadService) Upload(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (*Upload, error) {
	if s.storage == nil {
		return nil, apperrors.NewNotConfiguredError("File storage not configured")
	}
	if body == nil {
		return nil, apperrors.NewValidationError("Missing or invalid file")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := s.ObjectKey(folder, filename)
	url, err := s.storage.Put(ctx, key, body, size, contentType)
	if err != nil {
		return nil, err
	}
	return &Upload{URL: url, Path: key}, nil
}
