// Package s3report uploads benchmark window reports to S3 so results from a
// fleet of hosts land in one bucket.
package s3report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Publisher puts report objects into a single bucket.
type Publisher struct {
	client *s3.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewPublisher creates a publisher from an AWS config. A non-empty
// endpointOverride switches to path-style addressing for S3-compatible stores.
//
//	pub := s3report.NewPublisher(cfg, "bench-results", "fsbench", "", slog.Default())
//	err := pub.Put(ctx, pub.Key("host-a", 10000), body)
func NewPublisher(awsCfg aws.Config, bucket, prefix, endpointOverride string, logger *slog.Logger) *Publisher {
	opts := func(o *s3.Options) {
		if endpointOverride != "" {
			o.BaseEndpoint = aws.String(endpointOverride)
			o.UsePathStyle = true
		}
	}

	return &Publisher{
		client: s3.NewFromConfig(awsCfg, opts),
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Key returns the object key for a host's report at counter.
// Example: fsbench/host-a/10000.json
func (p *Publisher) Key(host string, counter uint64) string {
	return path.Join(p.prefix, host, strconv.FormatUint(counter, 10)+".json")
}

// Put uploads body as a JSON object at key.
func (p *Publisher) Put(ctx context.Context, key string, body []byte) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3report: PutObject %s/%s: %w", p.bucket, key, err)
	}

	p.logger.Debug("report uploaded", "bucket", p.bucket, "key", key, "bytes", len(body))
	return nil
}
