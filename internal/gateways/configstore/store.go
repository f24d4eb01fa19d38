package configstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

// Store loads the current game tables.
type Store interface {
	Load(ctx context.Context) (*catalog.Snapshot, error)
}

// FileStore reads tables from a local TOML or YAML file.
type FileStore struct {
	Path string
}

func (s FileStore) Load(_ context.Context) (*catalog.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}
	return Decode(data, FormatOf(s.Path))
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	// Endpoint defaults to the DigitalOcean Spaces endpoint for Region.
	Endpoint string `toml:"endpoint"`
	// Object is the table document's key inside the bucket.
	Object string `toml:"object"`
}

// SpacesStore reads tables from an S3-compatible bucket.
type SpacesStore struct {
	client *s3.Client
	bucket string
	object string
}

func NewSpacesStore(ctx context.Context, cfg SpacesConfig) (*SpacesStore, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", cfg.Region)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load spaces config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &SpacesStore{client: client, bucket: cfg.Bucket, object: cfg.Object}, nil
}

func (s *SpacesStore) Load(ctx context.Context) (*catalog.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.object),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tables %s/%s: %w", s.bucket, s.object, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables body: %w", err)
	}

	slog.Debug("Fetched tables from spaces",
		slog.String("type", "sys"),
		slog.String("bucket", s.bucket),
		slog.String("object", s.object),
		slog.Int("bytes", len(data)))
	return Decode(data, FormatOf(s.object))
}

// DefaultStore serves the built-in tables.
type DefaultStore struct{}

func (DefaultStore) Load(context.Context) (*catalog.Snapshot, error) {
	return catalog.DefaultSnapshot(), nil
}
