package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// CloudAccessError reports that the configured destination bucket
// couldn't be written to, mirroring the teacher's CloudNode.CheckAccess
// failure mode (CloudAccessError) generalized from the gsutil/GCS
// bucket-URL world to s3:// destinations.
type CloudAccessError struct {
	Destination string
	Cause       error
}

func (e CloudAccessError) Error() string {
	return fmt.Sprintf("unable to write to cloud storage destination %s: %v", e.Destination, e.Cause)
}

func (e CloudAccessError) Unwrap() error { return e.Cause }

// UploadProcessor is the "upload" post-processing processor (SPEC_FULL
// §4.12): it pushes a ProcessingStep's final output media file to an S3
// bucket, the way the teacher's CloudNode pushes packager output to cloud
// storage, but via the real AWS SDK rather than shelling out to gsutil.
type UploadProcessor struct {
	Bucket       string
	Key          string
	StorageClass types.StorageClass
	client       *s3.Client
}

// ParseS3Destination splits a "s3://bucket/key/prefix" destination into its
// bucket and key parts. Only s3:// destinations are supported; anything
// else is a ParameterValidationError per SPEC_FULL §4.12.
func ParseS3Destination(destination string) (bucket, key string, err error) {
	const prefix = "s3://"
	if !strings.HasPrefix(destination, prefix) {
		return "", "", NewParameterValidationError("upload", fmt.Sprintf("destination %q is not an s3:// URL", destination))
	}
	rest := strings.TrimPrefix(destination, prefix)
	parts := strings.SplitN(rest, "/", 2)
	bucket = parts[0]
	if bucket == "" {
		return "", "", NewParameterValidationError("upload", "destination is missing a bucket name")
	}
	if len(parts) == 2 {
		key = parts[1]
	}
	return bucket, key, nil
}

// NewUploadProcessor builds an UploadProcessor for destination
// ("s3://bucket/key") and storageClass (empty means the bucket default).
func NewUploadProcessor(ctx context.Context, destination, storageClass string) (*UploadProcessor, error) {
	bucket, key, err := ParseS3Destination(destination)
	if err != nil {
		return nil, err
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &UploadProcessor{
		Bucket:       bucket,
		Key:          key,
		StorageClass: types.StorageClass(storageClass),
		client:       s3.NewFromConfig(cfg),
	}, nil
}

// Upload pushes localPath's contents to the configured bucket/key. If Key
// ends with "/" (or is empty), the uploaded file's base name is appended,
// mirroring CloudNode's rsync-into-a-directory behaviour.
func (u *UploadProcessor) Upload(ctx context.Context, localPath string) error {
	key := u.Key
	if key == "" || strings.HasSuffix(key, "/") {
		key = key + baseName(localPath)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return CloudAccessError{Destination: u.destinationURL(key), Cause: err}
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if u.StorageClass != "" {
		input.StorageClass = u.StorageClass
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return CloudAccessError{Destination: u.destinationURL(key), Cause: err}
	}
	return nil
}

func (u *UploadProcessor) destinationURL(key string) string {
	return "s3://" + u.Bucket + "/" + key
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
