package firebase

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
)

// ImageStore uploads user images to the Firebase storage bucket.
type ImageStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewImageStore(bucket *storage.BucketHandle, bucketName string) *ImageStore {
	return &ImageStore{bucket: bucket, bucketName: bucketName}
}

// Save writes the image to the bucket and returns its public download URL.
func (s *ImageStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	return PublicURL(s.bucketName, name), nil
}

// PublicURL builds the download URL for an object in the bucket.
func PublicURL(bucket, name string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media", bucket, url.PathEscape(name))
}
