/*
Package storage is the content store for message attachments: bytes go in,
a public URL comes out, and deleting a message releases its bytes again.
*/
package storage

import (
	"context"
	"io"
	"strings"
)

// Attachment kinds, classified from the uploaded MIME type.
const (
	KindImage = "image"
	KindVideo = "video"
	KindFile  = "file"
)

// ServiceConfig holds the settings for the S3-compatible backend.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// PublicBaseURL is the URL prefix under which stored objects are served.
	PublicBaseURL string
}

// SavedObject describes a stored attachment.
type SavedObject struct {
	// URL is the public address of the stored bytes; it is what gets
	// persisted on the message row and handed back on delete.
	URL string

	// Key is the object key within the bucket.
	Key string

	// Name is the original file name as uploaded.
	Name string

	// Size is the stored byte count.
	Size int64

	// Kind is one of KindImage, KindVideo, KindFile.
	Kind string
}

// ContentStore is the capability the ingress pipeline depends on.
type ContentStore interface {
	// Save stores the content and returns its descriptor.
	Save(ctx context.Context, content io.Reader, originalName, mimeType string, size int64) (*SavedObject, error)

	// Delete releases the bytes behind a previously returned URL.
	// Deleting an unknown URL is not an error.
	Delete(ctx context.Context, url string) error
}

// ClassifyKind buckets a MIME type into an attachment kind.
func ClassifyKind(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	default:
		return KindFile
	}
}

// KindDir returns the key prefix objects of a kind are grouped under.
func KindDir(kind string) string {
	switch kind {
	case KindImage:
		return "images"
	case KindVideo:
		return "videos"
	default:
		return "files"
	}
}

// NewContentStore builds the S3-backed ContentStore.
func NewContentStore(cfg ServiceConfig) (ContentStore, error) {
	return newS3Store(cfg)
}
