package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"newsdash/config"
	"newsdash/types"
)

// ObjectPutter is the slice of the S3 API the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive writes every stored article as a JSON object to a bucket.
type S3Archive struct {
	client ObjectPutter
	bucket string
	prefix string
}

// archivedArticle is the object payload.
type archivedArticle struct {
	types.Article
	ArchivedAt time.Time `json:"archived_at"`
}

// NewS3Archive creates an archive using the default AWS configuration chain,
// with optional overrides from cfg.
func NewS3Archive(ctx context.Context, cfg config.S3Config) (*S3Archive, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3ArchiveWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3ArchiveWithClient wraps an existing client.
func NewS3ArchiveWithClient(client ObjectPutter, bucket, prefix string) *S3Archive {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Archive{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key for an article URL.
func (a *S3Archive) Key(articleURL string) string {
	return a.prefix + "articles/" + types.GenerateID(articleURL) + ".json"
}

// ArticleStored uploads the article. Re-ingesting a URL overwrites its object.
func (a *S3Archive) ArticleStored(ctx context.Context, article *types.Article) error {
	body, err := json.Marshal(archivedArticle{Article: *article, ArchivedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode article: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.Key(article.URL)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}
	return nil
}
