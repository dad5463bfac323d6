package services

import (
	"context"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"hrflow_backend/internal/config"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/storage"
	"hrflow_backend/pkg/apperrors"
)

// StoredFile - результат загрузки в хранилище
type StoredFile struct {
	Key          string
	OriginalName string
	ContentType  string
	Size         int64
}

// uploader - общая логика загрузки файлов (CV кандидатов, аватары)
type uploader struct {
	storage storage.Storage
}

func newUploader(store storage.Storage) *uploader {
	return &uploader{storage: store}
}

// Store проверяет файл по политике и кладет его под ключ prefix/<scope>/<uuid><ext>
func (u *uploader) Store(ctx context.Context, file *multipart.FileHeader, policy config.UploadPolicy, scope string) (*StoredFile, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("file is required")
	}
	contentType, err := validateFile(file, policy)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	key := storage.ObjectKey(policy.Prefix, scope, file.Filename)
	if err := u.storage.Save(ctx, key, src, contentType); err != nil {
		return nil, apperrors.ExternalServiceError(err, "storage", "Failed to store file")
	}

	return &StoredFile{
		Key:          key,
		OriginalName: filepath.Base(file.Filename),
		ContentType:  contentType,
		Size:         file.Size,
	}, nil
}

// Discard удаляет файл после неудачной записи в БД
func (u *uploader) Discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := u.storage.Delete(ctx, key); err != nil {
		logger.CtxWithError(ctx, "Failed to delete orphaned file", err, "key", key)
	}
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

func validateFile(file *multipart.FileHeader, policy config.UploadPolicy) (string, error) {
	// Проверка размера
	if policy.MaxSize > 0 && file.Size > policy.MaxSize {
		return "", apperrors.ErrFileTooLarge
	}

	// Проверка MIME-типа: заголовок части, иначе расширение
	mimeType := ""
	if header := file.Header.Get("Content-Type"); header != "" {
		if parsed, _, err := mime.ParseMediaType(header); err == nil {
			mimeType = parsed
		}
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = getMimeTypeFromFilename(file.Filename)
	}

	if !policy.Allows(mimeType) {
		return "", apperrors.ErrInvalidFileType
	}
	return mimeType, nil
}

func getMimeTypeFromFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	mimeTypes := map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
		".pdf":  "application/pdf",
		".doc":  "application/msword",
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}

	if m, ok := mimeTypes[ext]; ok {
		return m
	}
	return "application/octet-stream"
}
