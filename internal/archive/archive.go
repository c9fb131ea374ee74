// Package archive keeps an audit trail of every saved record set as a JSON
// object in S3-compatible storage (AWS S3, MinIO, Supabase Storage).
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
)

// Config selects the bucket. Credentials come from the default AWS chain
// unless a provider is given with WithCredentials.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	Prefix    string
}

// Snapshot is the archived content of one run.
type Snapshot struct {
	Scheme      string    `json:"scheme"`
	Mode        string    `json:"mode"`
	Delta       float64   `json:"delta_pct"`
	Period      string    `json:"period,omitempty"`
	Description string    `json:"description"`
	SavedAt     time.Time `json:"saved_at"`
	Records     any       `json:"records"`
}

// Archiver uploads snapshots.
type Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// Option adjusts AWS loading, mainly for tests.
type Option func(*options)

type options struct {
	httpClient  *http.Client
	credentials aws.CredentialsProvider
}

// WithHTTPClient routes S3 calls through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithCredentials uses a fixed credentials provider instead of the default chain.
func WithCredentials(p aws.CredentialsProvider) Option {
	return func(o *options) { o.credentials = p }
}

// New creates an Archiver for cfg.
func New(ctx context.Context, cfg Config, opts ...Option) (*Archiver, error) {
	if cfg.Bucket == "" {
		return nil, errors.NewConfigError("archive", "bucket is required", nil)
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if o.credentials != nil {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(o.credentials))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.NewConfigError("archive", "load AWS configuration", err)
	}

	client := s3.NewFromConfig(awsCfg, func(so *s3.Options) {
		so.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			so.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if o.httpClient != nil {
			so.HTTPClient = o.httpClient
		}
	})
	return &Archiver{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Key returns the object key for a snapshot.
func (a *Archiver) Key(s Snapshot) string {
	return path.Join(a.prefix, s.Scheme, s.SavedAt.UTC().Format(constants.TimeFormatArchive)+".json")
}

// Put uploads the snapshot and returns its key.
func (a *Archiver) Put(ctx context.Context, s Snapshot) (string, error) {
	body, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", errors.WrapParse("json", "snapshot", err)
	}
	key := a.Key(s)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", errors.WrapIO("upload", "s3://"+a.bucket+"/"+key, err)
	}
	return key, nil
}
