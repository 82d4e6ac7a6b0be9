package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"vaultconnect/internal/domain"
	"vaultconnect/internal/repository"
	"vaultconnect/internal/storage"
)

const presignExpiry = 15 * time.Minute

// FileUploadLimits bounds what may be uploaded.
type FileUploadLimits struct {
	MaxBytes     int64
	AllowedTypes []string
}

// FileService describes uploaded file operations. Blobs live in object
// storage; the repository only tracks metadata.
type FileService interface {
	Upload(ctx context.Context, userID, filename, contentType string, size int64, body io.Reader) (*domain.File, error)
	List(ctx context.Context, userID string) ([]domain.File, error)
	// Get returns the file metadata and a short-lived download URL.
	Get(ctx context.Context, userID, id string) (*domain.File, string, error)
	Delete(ctx context.Context, userID, id string) error
	// DeleteAllForUser removes every file the user owns, blobs included.
	DeleteAllForUser(ctx context.Context, userID string) error
}

type fileService struct {
	files     repository.FileRepository
	store     storage.Service
	keyPrefix string
	limits    FileUploadLimits
}

func NewFileService(files repository.FileRepository, store storage.Service, keyPrefix string, limits FileUploadLimits) FileService {
	return &fileService{
		files:     files,
		store:     store,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		limits:    limits,
	}
}

func (s *fileService) Upload(ctx context.Context, userID, filename, contentType string, size int64, body io.Reader) (*domain.File, error) {
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrValidation)
	}
	if s.limits.MaxBytes > 0 && size > s.limits.MaxBytes {
		return nil, fmt.Errorf("%w: file exceeds maximum size of %d bytes", ErrValidation, s.limits.MaxBytes)
	}
	if !s.typeAllowed(contentType) {
		return nil, fmt.Errorf("%w: file type %q is not allowed", ErrValidation, contentType)
	}

	file := &domain.File{
		ID:          uuid.NewString(),
		UserID:      userID,
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
	}
	file.StorageKey = s.objectKey(userID, file.ID, filename)

	// LimitReader guards against clients lying about the multipart size.
	limited := body
	if s.limits.MaxBytes > 0 {
		limited = io.LimitReader(body, s.limits.MaxBytes)
	}
	if err := s.store.Upload(ctx, file.StorageKey, contentType, limited); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	if err := s.files.Create(ctx, file); err != nil {
		// best effort: do not leave an unreferenced blob behind
		_ = s.store.Delete(ctx, file.StorageKey)
		return nil, err
	}
	return file, nil
}

func (s *fileService) List(ctx context.Context, userID string) ([]domain.File, error) {
	return s.files.ListByUser(ctx, userID)
}

func (s *fileService) Get(ctx context.Context, userID, id string) (*domain.File, string, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if file.UserID != userID {
		return nil, "", ErrForbidden
	}

	url, err := s.store.PresignGet(ctx, file.StorageKey, presignExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("presign download: %w", err)
	}
	return file, url, nil
}

func (s *fileService) Delete(ctx context.Context, userID, id string) error {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if file.UserID != userID {
		return ErrForbidden
	}

	if err := s.store.Delete(ctx, file.StorageKey); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return s.files.Delete(ctx, id)
}

func (s *fileService) DeleteAllForUser(ctx context.Context, userID string) error {
	files, err := s.files.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := s.store.Delete(ctx, file.StorageKey); err != nil {
			return fmt.Errorf("delete blob %s: %w", file.StorageKey, err)
		}
	}
	return s.files.DeleteByUser(ctx, userID)
}

func (s *fileService) typeAllowed(contentType string) bool {
	if len(s.limits.AllowedTypes) == 0 {
		return false
	}
	for _, allowed := range s.limits.AllowedTypes {
		if strings.EqualFold(allowed, contentType) {
			return true
		}
	}
	return false
}

func (s *fileService) objectKey(userID, fileID, filename string) string {
	key := fmt.Sprintf("%s/%s/%s", userID, fileID, filename)
	if s.keyPrefix != "" {
		key = s.keyPrefix + "/" + key
	}
	return key
}
