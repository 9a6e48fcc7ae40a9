package minio

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"

	"github.com/pribylovaa/go-tour-booking/internal/storage"
)

// PhotoUploadURL генерирует presigned PUT URL для загрузки фотографии.
// Валидирует contentType и contentLength по конфигу, формирует ключ вида
// "photos/<userID>/<uuid>.<ext>" и возвращает заголовки, которые клиент
// обязан передать при PUT (проверяются при подтверждении).
func (s *PhotoStorage) PhotoUploadURL(ctx context.Context, userID string, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "storage/minio/PhotoUploadURL"

	if contentLength <= 0 || contentLength > s.cfg.Photo.MaxSizeBytes {
		return nil, storage.ErrInvalidArgument
	}

	if !isAllowedContentType(s.cfg.Photo.AllowedContentTypes, contentType) {
		return nil, storage.ErrInvalidArgument
	}

	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	}

	key := path.Join("photos", userID, uuid.NewString()+ext)

	url, err := s.client.PresignedPutObject(ctx, s.cfg.S3.Bucket, key, s.cfg.S3.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.UploadInfo{
		UploadURL: url.String(),
		PhotoKey:  key,
		Expires:   s.cfg.S3.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": fmt.Sprintf("%d", contentLength),
		},
	}, nil
}

// CheckPhotoUpload подтверждает факт загрузки по key: объект существует,
// принадлежит пользователю и удовлетворяет ограничениям размера/типа.
// Возвращает публичный URL, если PublicBaseURL задан, иначе пустую строку.
func (s *PhotoStorage) CheckPhotoUpload(ctx context.Context, userID string, key string) (string, error) {
	const op = "storage/minio/CheckPhotoUpload"

	prefix := "photos/" + userID + "/"
	if !strings.HasPrefix(key, prefix) {
		return "", storage.ErrInvalidArgument
	}

	objInfo, err := s.client.StatObject(ctx, s.cfg.S3.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return "", storage.ErrNotFound
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if objInfo.Size <= 0 || objInfo.Size > s.cfg.Photo.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	if ct := objInfo.ContentType; ct != "" && !isAllowedContentType(s.cfg.Photo.AllowedContentTypes, ct) {
		return "", storage.ErrInvalidArgument
	}

	if s.cfg.S3.PublicBaseURL == "" {
		return "", nil
	}

	return strings.TrimRight(s.cfg.S3.PublicBaseURL, "/") + "/" + key, nil
}

// isAllowedContentType проверяет, что тип содержимого входит в allow-list.
func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}

	return false
}
