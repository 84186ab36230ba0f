// Package storage holds file blobs for medical records, prescriptions and
// doctor logos.
package storage

import (
	"context"
	"errors"
	"io"
)

// Buckets used by the application.
const (
	BucketMedicalRecords = "medical-records"
	BucketPrescriptions  = "prescriptions"
	BucketLogos          = "logos"
)

var (
	ErrObjectExists   = errors.New("storage: object already exists")
	ErrObjectNotFound = errors.New("storage: object not found")
)

// Object is a downloaded blob.
type Object struct {
	ContentType string
	Data        []byte
}

// ObjectStore is an S3 style blob store addressed by bucket and key.
type ObjectStore interface {
	// Upload stores body under bucket/key. Without upsert an existing key
	// fails with ErrObjectExists.
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, upsert bool) error
	Download(ctx context.Context, bucket, key string) (*Object, error)
	Delete(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
}
