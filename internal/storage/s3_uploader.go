package storage

import (
	"bytes"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Uploader archives issued invoice PDFs to S3-compatible storage. GST
// rules require issued invoices to be retained, so every generated PDF can
// optionally be copied to a bucket in addition to the local download.
type S3Uploader struct {
	s3Client *s3.S3
	bucket   string
	prefix   string
}

// Config holds configuration for the S3 uploader.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
	Prefix          string // key prefix inside the bucket, e.g. "invoices"
}

// NewS3Uploader creates a new S3 uploader.
func NewS3Uploader(config *Config) (*S3Uploader, error) {
	if config.Endpoint == "" || config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region:           aws.String(config.Region),
		Endpoint:         aws.String(config.Endpoint),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
	}))

	prefix := config.Prefix
	if prefix == "" {
		prefix = "invoices"
	}

	return &S3Uploader{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		prefix:   prefix,
	}, nil
}

// UploadPDF stores a rendered invoice in the archive bucket and returns its
// object location.
func (u *S3Uploader) UploadPDF(pdf []byte, filename string) (string, error) {
	key := path.Join(u.prefix, filename)

	_, err := u.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(pdf),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(pdf))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}
