package server

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/vpbrowse/internal/errors"
)

// S3API is the part of the S3 client S3Source uses.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source serves assets from an S3 bucket.
type S3Source struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Source creates a source reading keys prefix+name from bucket.
func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// Open implements AssetSource.
func (s *S3Source) Open(ctx context.Context, name string) (*Asset, error) {
	key := s.prefix + name
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, errors.New("E301").WithDetailf("s3://%s/%s", s.bucket, key)
		}
		return nil, errors.New("E302").WithDetailf("s3://%s/%s", s.bucket, key).Wrap(err)
	}

	a := &Asset{
		Name:        name,
		Body:        out.Body,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        aws.ToString(out.ETag),
	}
	if out.ContentLength == nil {
		a.Size = -1
	}
	if out.LastModified != nil {
		a.ModTime = *out.LastModified
	}
	return a, nil
}

// S3Options describes the bucket connection.
type S3Options struct {
	Region   string
	Endpoint string // custom endpoint, e.g. a MinIO server
}

// NewS3Client creates an S3 client. Credentials are read from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN; without
// them requests are anonymous, which suits public buckets.
func NewS3Client(opts S3Options) *s3.Client {
	o := s3.Options{
		Region:      opts.Region,
		Credentials: envCredentials(os.Getenv),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	}
	return s3.New(o)
}

func envCredentials(getenv func(string) string) aws.CredentialsProvider {
	id, secret := getenv("AWS_ACCESS_KEY_ID"), getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := getenv("AWS_SESSION_TOKEN")
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "environment",
		}, nil
	}))
}
