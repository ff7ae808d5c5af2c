package services

import (
	"context"
	"path"
	"strings"

	"teamdesk/internal/storage"
	deskerrors "teamdesk/pkg/errors"

	"github.com/google/uuid"
)

// UploadTarget is a presigned destination the client uploads bytes to.
// Key is the blob reference to attach to the message afterwards.
type UploadTarget struct {
	URL     string            `json:"url"`
	Key     string            `json:"key"`
	Headers map[string]string `json:"headers"`
}

type UploadService struct {
	blobs *storage.Client
}

func NewUploadService(blobs *storage.Client) *UploadService {
	return &UploadService{blobs: blobs}
}

// CreateUploadTarget issues a presigned PUT destination scoped under the
// actor's prefix. The filename is flattened to its base name.
func (s *UploadService) CreateUploadTarget(ctx context.Context, actorID uuid.UUID, fileName, contentType string, sizeBytes int64) (UploadTarget, error) {
	if s.blobs == nil {
		return UploadTarget{}, deskerrors.ErrInvalidOperation
	}
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		fileName = "upload"
	}

	key := "uploads/" + actorID.String() + "/" + uuid.NewString() + "/" + fileName
	url, headers, err := s.blobs.PresignPut(ctx, key, contentType, sizeBytes)
	if err != nil {
		return UploadTarget{}, err
	}
	return UploadTarget{URL: url, Key: key, Headers: headers}, nil
}
