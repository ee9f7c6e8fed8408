package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"tmyreport/internal/logger"
)

// GCSClient handles Google Cloud Storage operations
type GCSClient struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*GCSClient, error) {
	if bucketName == "" {
		return nil, errors.New("bucket name is required")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
		log:    logger.GetGlobalLogger().WithComponent("gcs"),
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// CreateDir is a no-op; object names carry their folders
func (g *GCSClient) CreateDir(ctx context.Context, dirPath string) error {
	_, err := cleanPath(dirPath)
	return err
}

// StoreFile uploads an object with a content type derived from its extension
func (g *GCSClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	name, err := cleanPath(filePath)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: empty object name", ErrInvalidPath)
	}

	g.log.Debug("Storing object", map[string]interface{}{"bucket": g.bucket, "object": name, "bytes": len(fileData)})

	writer := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	writer.ContentType = GetContentType(name)
	writer.CacheControl = "public, max-age=3600"

	if _, err := writer.Write(fileData); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}
	return nil
}

// GetFile downloads an object
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	name, err := cleanPath(filePath)
	if err != nil {
		return nil, err
	}

	reader, err := g.client.Bucket(g.bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for file %s: %w", filePath, err)
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return fileData, nil
}

// ListDir lists objects under a prefix. Non-recursive listings include
// the next level of folders.
func (g *GCSClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	prefix, err := cleanPath(dirPath)
	if err != nil {
		return nil, err
	}
	if prefix != "" {
		prefix += "/"
	}

	query := &storage.Query{Prefix: prefix}
	if !recursive {
		query.Delimiter = "/"
	}

	var out []string
	it := g.client.Bucket(g.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if attrs.Prefix != "" {
			out = append(out, strings.TrimSuffix(attrs.Prefix, "/"))
			continue
		}
		out = append(out, attrs.Name)
	}
	sort.Strings(out)
	return out, nil
}

// FileExists checks for an object
func (g *GCSClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	name, err := cleanPath(filePath)
	if err != nil {
		return false, err
	}
	_, err = g.client.Bucket(g.bucket).Object(name).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat object %s: %w", filePath, err)
	}
	return true, nil
}
