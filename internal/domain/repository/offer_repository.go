package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

// OfferFilter narrows an offer listing. A nil ProductID means any offer.
type OfferFilter struct {
	ProductID *int64
	Limit     int
	Offset    int
}

// OfferRepository persists offers.
type OfferRepository interface {
	List(ctx context.Context, f OfferFilter) ([]*entity.Offer, int, error)
	GetByID(ctx context.Context, id int64) (*entity.Offer, error)
	Create(ctx context.Context, o *entity.Offer) error
	Update(ctx context.Context, o *entity.Offer) error
	// Delete removes the offer and returns it as it was, so callers know which
	// product lost it.
	Delete(ctx context.Context, id int64) (*entity.Offer, error)
}
