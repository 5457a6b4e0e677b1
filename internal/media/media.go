// Package media turns stored image references into URLs a browser can load.
// Absolute URLs are used as-is; bare object keys live in an R2 bucket and
// are served through short-lived presigned links.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bilgisen/breakdown/internal/logger"
)

// Resolver maps a stored image reference to a fetchable URL.
type Resolver interface {
	Resolve(ctx context.Context, ref string) string
}

// Passthrough returns every reference unchanged.
type Passthrough struct{}

func (Passthrough) Resolve(_ context.Context, ref string) string { return ref }

// R2Config describes the Cloudflare R2 bucket holding uploaded images.
type R2Config struct {
	Endpoint  string
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	TTL       time.Duration
}

// Enabled reports whether enough is configured to presign.
func (c R2Config) Enabled() bool {
	return c.AccessKey != "" && c.SecretKey != "" && c.Bucket != "" && (c.Endpoint != "" || c.AccountID != "")
}

type presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type R2Resolver struct {
	presign presigner
	bucket  string
	ttl     time.Duration
}

func NewR2Resolver(ctx context.Context, cfg R2Config) (*R2Resolver, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &R2Resolver{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		ttl:     ttl,
	}, nil
}

// Resolve presigns bare keys and r2://bucket/key references. On failure the
// reference is returned unchanged so a broken image never breaks a listing.
func (r *R2Resolver) Resolve(ctx context.Context, ref string) string {
	bucket, key, ok := r.split(ref)
	if !ok {
		return ref
	}

	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(r.ttl))
	if err != nil {
		log := logger.Component("media")
		log.Warn().Err(err).Str("bucket", bucket).Str("key", key).Msg("Failed to presign image")
		return ref
	}
	return req.URL
}

func (r *R2Resolver) split(ref string) (bucket, key string, ok bool) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", "", false
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "data:"):
		return "", "", false
	case strings.HasPrefix(ref, "r2://"):
		rest := strings.TrimPrefix(ref, "r2://")
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return "", "", false
		}
		return bucket, key, true
	}
	return r.bucket, strings.TrimPrefix(ref, "/"), true
}
