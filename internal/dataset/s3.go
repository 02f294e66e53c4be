package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aristath/growthmap/internal/domain"
)

// S3Options configures access to S3-compatible object storage (AWS, R2, MinIO)
type S3Options struct {
	Endpoint        string // custom endpoint; path-style addressing is used when set
	Region          string // "auto" when empty
	AccessKeyID     string // static credentials; default chain when empty
	SecretAccessKey string
}

// objectDownloader is satisfied by *manager.Downloader
type objectDownloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error)
}

// S3Source downloads a dataset object once and decodes it by key extension
type S3Source struct {
	uri        string
	bucket     string
	key        string
	format     Format
	sheet      string
	table      string
	s3         S3Options

	mu         sync.Mutex
	downloader objectDownloader
}

// NewS3Source parses an s3://bucket/key URI
func NewS3Source(opts Options) (*S3Source, error) {
	u, err := url.Parse(opts.Path)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return nil, &domain.DataSourceError{Source: opts.Path, Reason: "invalid s3 uri (want s3://bucket/key)", Err: err}
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return nil, &domain.DataSourceError{Source: opts.Path, Reason: "s3 uri has no object key"}
	}

	format, err := DetectFormat(key)
	if err != nil {
		return nil, &domain.DataSourceError{Source: opts.Path, Reason: "detect format", Err: err}
	}

	return &S3Source{
		uri:    opts.Path,
		bucket: u.Host,
		key:    key,
		format: format,
		sheet:  opts.Sheet,
		table:  opts.Table,
		s3:     opts.S3,
	}, nil
}

// Name returns the object URI
func (s *S3Source) Name() string { return s.uri }

// Read downloads the object into memory and decodes it
func (s *S3Source) Read(ctx context.Context) (*Table, error) {
	downloader, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	buf := manager.NewWriteAtBuffer(nil)
	if _, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	}); err != nil {
		return nil, &domain.DataSourceError{Source: s.uri, Reason: "download object", Err: err}
	}

	return s.decode(ctx, buf.Bytes())
}

// client returns the shared downloader, building it on first use.
// Reloads may call Read concurrently.
func (s *S3Source) client(ctx context.Context) (objectDownloader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.downloader != nil {
		return s.downloader, nil
	}
	client, err := newS3Client(ctx, s.s3)
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.uri, Reason: "configure s3 client", Err: err}
	}
	s.downloader = manager.NewDownloader(client)
	return s.downloader, nil
}

func (s *S3Source) decode(ctx context.Context, data []byte) (*Table, error) {
	switch s.format {
	case FormatXLSX:
		return readXLSX(s.uri, bytes.NewReader(data), s.sheet)
	case FormatSQLite:
		// SQLite needs a file on disk
		tmp, err := os.CreateTemp("", "dataset-*.db")
		if err != nil {
			return nil, &domain.DataSourceError{Source: s.uri, Reason: "stage sqlite file", Err: err}
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(data); err != nil {
			_ = tmp.Close()
			return nil, &domain.DataSourceError{Source: s.uri, Reason: "stage sqlite file", Err: err}
		}
		if err := tmp.Close(); err != nil {
			return nil, &domain.DataSourceError{Source: s.uri, Reason: "stage sqlite file", Err: err}
		}
		table, err := NewSQLiteSource(tmp.Name(), s.table).Read(ctx)
		if err != nil {
			return nil, err
		}
		table.Source = s.uri
		return table, nil
	default:
		return readCSV(s.uri, bytes.NewReader(data))
	}
}

func newS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	region := opts.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
