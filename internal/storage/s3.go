package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/altinukshini/gha-rerun/internal/model"
)

// PutObjectAPI is the subset of the S3 API the archiver uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver keeps a copy of each downloaded log archive in a bucket under
// <prefix>/<owner>/<repo>/<run id>-<attempt>.zip.
type S3Archiver struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Archiver(client PutObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix}
}

// NewS3ArchiverFromEnv builds an archiver with credentials and region from
// the default AWS sources (environment, shared config, instance role).
func NewS3ArchiverFromEnv(ctx context.Context, bucket, prefix string) (*S3Archiver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewS3Archiver(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (a *S3Archiver) Key(repo string, run model.Run) string {
	attempt := run.RunAttempt
	if attempt <= 0 {
		attempt = 1
	}
	name := strconv.FormatInt(run.ID, 10) + "-" + strconv.Itoa(attempt) + ".zip"
	return path.Join(a.prefix, repo, name)
}

// Archive uploads the archive file at file and returns its s3:// location.
func (a *S3Archiver) Archive(ctx context.Context, repo string, run model.Run, file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat archive: %w", err)
	}

	key := a.Key(repo, run)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("application/zip"),
		Metadata: map[string]string{
			"run-id":   strconv.FormatInt(run.ID, 10),
			"head-sha": run.HeadSHA,
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload s3://%s/%s: %w", a.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
