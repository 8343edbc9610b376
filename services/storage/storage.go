package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadedFile identifies a stored object.
type UploadedFile struct {
	URL      string
	PublicID string
}

// FileStorage stores provider document images.
type FileStorage interface {
	Upload(ctx context.Context, file io.Reader, folder string) (UploadedFile, error)
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryStorage implements FileStorage on Cloudinary.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage wraps an initialized Cloudinary client.
func NewCloudinaryStorage(cld *cloudinary.Cloudinary) *CloudinaryStorage {
	return &CloudinaryStorage{cld: cld}
}

// Upload streams file into folder and returns its secure URL and public ID.
func (s *CloudinaryStorage) Upload(ctx context.Context, file io.Reader, folder string) (UploadedFile, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return UploadedFile{}, fmt.Errorf("failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return UploadedFile{}, fmt.Errorf("failed to upload file: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return UploadedFile{}, fmt.Errorf("failed to upload file: no public ID returned")
	}
	return UploadedFile{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// Delete removes a file by its public ID.
func (s *CloudinaryStorage) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
