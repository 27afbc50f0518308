package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

// ListObjects returns every object name in the bucket.
func (c *CloudStorageClient) ListObjects(ctx context.Context) ([]string, error) {
	it := c.client.Bucket(c.bucketName).Objects(ctx, nil)

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %v", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// DeleteAll removes every object in the bucket and returns how many were
// deleted.
func (c *CloudStorageClient) DeleteAll(ctx context.Context) (int, error) {
	names, err := c.ListObjects(ctx)
	if err != nil {
		return 0, err
	}

	bucket := c.client.Bucket(c.bucketName)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for _, name := range names {
		g.Go(func() error {
			if err := bucket.Object(name).Delete(gctx); err != nil && err != storage.ErrObjectNotExist {
				return fmt.Errorf("failed to delete object %s: %v", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(names), nil
}
