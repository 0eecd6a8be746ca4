package s3

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/dmitrymomot/simplecdn/core/storage"
)

var _ storage.Replica = (*Mirror)(nil)

// deleteBatchSize is the DeleteObjects limit per request.
const deleteBatchSize = 1000

// Client is the subset of the S3 API used by Mirror.
type Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3aws.DeleteObjectsInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, params *s3aws.HeadBucketInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadBucketOutput, error)
}

// ListObjectsV2Paginator iterates ListObjectsV2 pages.
type ListObjectsV2Paginator interface {
	HasMorePages() bool
	NextPage(ctx context.Context, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error)
}

// PaginatorFactory builds a paginator for a listing request.
type PaginatorFactory func(client Client, params *s3aws.ListObjectsV2Input) ListObjectsV2Paginator

// Mirror copies local storage mutations to a bucket.
type Mirror struct {
	client        Client
	bucket        string
	prefix        string
	uploadTimeout time.Duration
	paginators    PaginatorFactory
}

// Option configures Mirror.
type Option func(*options)

type options struct {
	client        Client
	httpClient    *http.Client
	configOptions []func(*config.LoadOptions) error
	clientOptions []func(*s3aws.Options)
	paginators    PaginatorFactory
}

// WithClient sets a pre-configured client. Mainly used in tests.
func WithClient(client Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithConfigOption adds an AWS config load option.
func WithConfigOption(opt func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.configOptions = append(o.configOptions, opt)
	}
}

// WithClientOption adds an S3 client option.
func WithClientOption(opt func(*s3aws.Options)) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, opt)
	}
}

// WithPaginatorFactory overrides how listings are paginated.
// Required when WithClient is given something other than *s3.Client.
func WithPaginatorFactory(f PaginatorFactory) Option {
	return func(o *options) {
		o.paginators = f
	}
}

// New creates a Mirror for cfg.
func New(ctx context.Context, cfg Config, opts ...Option) (*Mirror, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		loadOpts := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			))
		}
		if o.httpClient != nil {
			loadOpts = append(loadOpts, config.WithHTTPClient(o.httpClient))
		}
		loadOpts = append(loadOpts, o.configOptions...)

		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}

		client = s3aws.NewFromConfig(awsCfg, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
			for _, opt := range o.clientOptions {
				opt(so)
			}
		})
	}

	paginators := o.paginators
	if paginators == nil {
		paginators = func(c Client, params *s3aws.ListObjectsV2Input) ListObjectsV2Paginator {
			if sc, ok := c.(*s3aws.Client); ok {
				return s3aws.NewListObjectsV2Paginator(sc, params)
			}
			return nil
		}
	}

	return &Mirror{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		uploadTimeout: cfg.UploadTimeout,
		paginators:    paginators,
	}, nil
}

// Key returns the object key for a root-relative path.
func (m *Mirror) Key(rel string) (string, error) {
	rel = strings.Trim(rel, "/")
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." || seg == "." {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, rel)
		}
	}
	if m.prefix == "" {
		return rel, nil
	}
	return path.Join(m.prefix, rel), nil
}

// PutFile uploads the file at localPath under the key for rel.
func (m *Mirror) PutFile(ctx context.Context, rel, localPath string) error {
	key, err := m.Key(rel)
	if err != nil {
		return err
	}
	if key == "" || key == m.prefix {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	if m.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.uploadTimeout)
		defer cancel()
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(localPath); err == nil {
		contentType = mt.String()
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %q: %w", rel, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %q: %w", rel, err)
	}

	_, err = m.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	return classifyS3Error(err, "put object")
}

// Ping checks that the bucket exists and the credentials can reach it.
func (m *Mirror) Ping(ctx context.Context) error {
	_, err := m.client.HeadBucket(ctx, &s3aws.HeadBucketInput{Bucket: aws.String(m.bucket)})
	return classifyS3Error(err, "head bucket")
}

// MakeDir creates an empty "rel/" marker so empty directories survive in the bucket.
func (m *Mirror) MakeDir(ctx context.Context, rel string) error {
	key, err := m.Key(rel)
	if err != nil {
		return err
	}
	if key == "" || key == m.prefix {
		return nil
	}

	_, err = m.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key + "/"),
		Body:          strings.NewReader(""),
		ContentLength: aws.Int64(0),
	})
	return classifyS3Error(err, "put directory marker")
}

// Delete removes the object for rel, or every object under rel/ when isDir.
// Missing objects are not an error.
func (m *Mirror) Delete(ctx context.Context, rel string, isDir bool) error {
	key, err := m.Key(rel)
	if err != nil {
		return err
	}
	if key == "" || key == m.prefix {
		return fmt.Errorf("%w: refusing to delete the mirror root", ErrInvalidKey)
	}

	if !isDir {
		_, err := m.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
			Bucket: aws.String(m.bucket),
			Key:    aws.String(key),
		})
		return classifyS3Error(err, "delete object")
	}

	return m.deletePrefix(ctx, key+"/")
}

func (m *Mirror) deletePrefix(ctx context.Context, prefix string) error {
	paginator := m.paginators(m.client, &s3aws.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(prefix),
	})
	if paginator == nil {
		return ErrPaginatorNil
	}

	var objects []types.ObjectIdentifier
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return classifyS3Error(err, "list objects")
		}
		for _, obj := range page.Contents {
			objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
		}
	}

	for start := 0; start < len(objects); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(objects))
		out, err := m.client.DeleteObjects(ctx, &s3aws.DeleteObjectsInput{
			Bucket: aws.String(m.bucket),
			Delete: &types.Delete{
				Objects: objects[start:end],
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return classifyS3Error(err, "delete objects")
		}
		if out != nil && len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("%w: %d failed, first %s: %s",
				ErrPartialDelete, len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Code))
		}
	}

	return nil
}
