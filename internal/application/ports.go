package application

import (
	"context"
	"io"

	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

// EventPublisher puts a JSON message on the events queue.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ImageStore saves an uploaded image and returns a reference to it.
type ImageStore interface {
	Store(ctx context.Context, r io.Reader, objectPath, contentType string) (string, error)
}

// ProductIndex is the full-text search side of the catalog.
type ProductIndex interface {
	Index(ctx context.Context, doc helpers.ProductDocument) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, limit int) ([]int64, error)
}

var (
	_ EventPublisher = (*helpers.RabbitPublisher)(nil)
	_ ImageStore     = (*helpers.GCSImageStore)(nil)
	_ ProductIndex   = (*helpers.ESProductIndex)(nil)
)
