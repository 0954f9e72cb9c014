package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

const defaultPresignExpiration = 10 * time.Minute

type s3Storage struct {
	client *s3.S3
	cfg    *S3Configs
}

func NewS3Storage(cfg *S3Configs) (*s3Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(cfg.SSLDisabled),
	})
	if err != nil {
		return nil, err
	}

	return &s3Storage{client: s3.New(sess), cfg: cfg}, nil
}

func (s *s3Storage) PresignUpload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	key := path.Join(object.Prefix, fmt.Sprintf("%s-%s", uuid.NewString(), object.FileName))

	req, _ := s.client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(object.Mime),
	})
	req.SetContext(ctx)

	expiration := s.cfg.PresignExpiration
	if expiration <= 0 {
		expiration = defaultPresignExpiration
	}

	url, err := req.Presign(expiration)
	if err != nil {
		return nil, fmt.Errorf("presign failed: %w, bucket %s, key %s", err, s.cfg.Bucket, key)
	}

	return &UploadResponse{
		URL:       url,
		Key:       key,
		ExpiresAt: time.Now().Add(expiration),
	}, nil
}

func (s *s3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var reqErr awserr.RequestFailure
		if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
