package storage

import (
	"context"
	"time"
)

type Storage interface {
	// PresignUpload returns a short-lived URL the client PUTs the object to.
	PresignUpload(context.Context, *UploadObject) (*UploadResponse, error)

	// Exists reports whether the object with the given key has been uploaded.
	Exists(ctx context.Context, key string) (bool, error)
}

type S3Configs struct {
	Region      string
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	SSLDisabled bool

	PresignExpiration time.Duration
}

type UploadObject struct {
	Prefix   string
	FileName string
	Mime     string
}

type UploadResponse struct {
	URL       string
	Key       string
	ExpiresAt time.Time
}
