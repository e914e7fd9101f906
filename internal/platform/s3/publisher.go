package s3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/util/retry"
)

// ErrBucketNotFound is returned when the target bucket does not exist.
var ErrBucketNotFound = errors.New("bucket not found")

// Document is the published JSON.
type Document struct {
	Stack       string               `json:"stack"`
	Cluster     string               `json:"cluster"`
	PublishedAt time.Time            `json:"publishedAt"`
	Outputs     []graph.OutputExport `json:"outputs"`
}

// Store is what the publisher needs from object storage.
type Store interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, key, contentType string, data []byte) error
}

// Publisher writes output documents.
type Publisher struct {
	Store  Store
	Bucket string
	Prefix string
	Log    logr.Logger

	MaxAttempts  int
	InitialDelay time.Duration

	now func() time.Time
}

// Key returns the object key for a stack.
func (p *Publisher) Key(stack string) string {
	return path.Join(p.Prefix, stack, "outputs.json")
}

// Publish writes the outputs of stack and returns the object key.
func (p *Publisher) Publish(ctx context.Context, stack, cluster string, outputs []graph.OutputExport) (string, error) {
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	doc := Document{Stack: stack, Cluster: cluster, PublishedAt: now().UTC(), Outputs: outputs}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode outputs: %w", err)
	}

	exists, err := p.Store.BucketExists(ctx, p.Bucket)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrBucketNotFound, p.Bucket)
	}

	key := p.Key(stack)
	opts := []retry.Option{
		retry.WithOnRetry(func(attempt int, delay time.Duration, err error) {
			p.Log.Info("publish failed, retrying", "bucket", p.Bucket, "key", key, "attempt", attempt, "delay", delay, "error", err.Error())
		}),
	}
	if p.MaxAttempts > 0 {
		opts = append(opts, retry.WithMaxAttempts(p.MaxAttempts))
	}
	if p.InitialDelay > 0 {
		opts = append(opts, retry.WithInitialDelay(p.InitialDelay))
	}

	err = retry.Do(ctx, func(ctx context.Context) error {
		err := p.Store.PutObject(ctx, p.Bucket, key, "application/json", data)
		if err != nil && !isRetryable(err) {
			return retry.Fatal(err)
		}
		return err
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to publish outputs to s3://%s/%s: %w", p.Bucket, key, err)
	}
	p.Log.V(1).Info("published outputs", "bucket", p.Bucket, "key", key, "count", len(outputs))
	return key, nil
}
