package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

// SortField is a column products may be ordered by.
type SortField string

const (
	SortByID   SortField = "id"
	SortByName SortField = "name"
)

// Sort is one ordering clause; clauses apply in slice order.
type Sort struct {
	Field SortField
	Desc  bool
}

// ProductFilter narrows a product listing.
// IDs and Price match exactly, Description is a case-insensitive substring.
type ProductFilter struct {
	IDs         []int64
	Price       string
	Description string
	Sort        []Sort
	Limit       int
	Offset      int
}

// ProductRepository persists the product aggregate. Methods that change the
// offer relationship update both sides in a single transaction.
type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// Create inserts p and attaches the offers listed in offerIDs.
	Create(ctx context.Context, p *entity.Product, offerIDs []int64) error
	// Update rewrites p's columns. When offerIDs is non-nil it becomes the
	// complete offer set: missing offers are detached, new ones attached.
	Update(ctx context.Context, p *entity.Product, offerIDs []int64) error
	Delete(ctx context.Context, id int64) error
	AttachOffer(ctx context.Context, productID, offerID int64) (*entity.Offer, error)
	DetachOffer(ctx context.Context, productID, offerID int64) (*entity.Offer, error)
	SetImage(ctx context.Context, productID int64, image string) error
}
