package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

type OfferRepository struct {
	pool PgxPool
}

func NewOfferRepository(pool PgxPool) *OfferRepository {
	return &OfferRepository{pool: pool}
}

func (r *OfferRepository) List(ctx context.Context, f repository.OfferFilter) ([]*entity.Offer, int, error) {
	where := ""
	var args []any
	if f.ProductID != nil {
		args = append(args, *f.ProductID)
		where = " WHERE product_id = $1"
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM offer"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting offers: %w", classify(err))
	}

	query := "SELECT " + offerColumns + " FROM offer" + where + " ORDER BY id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	offers, err := queryOffers(ctx, r.pool, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing offers: %w", err)
	}
	return offers, int(total), nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*entity.Offer, error) {
	o, err := scanOffer(r.pool.QueryRow(ctx, "SELECT "+offerColumns+" FROM offer WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("error querying offer by id: %w", classify(err))
	}
	return o, nil
}

// Create inserts o. A ProductID naming a missing product yields ErrUnknownReference.
func (r *OfferRepository) Create(ctx context.Context, o *entity.Offer) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO offer (url, price, price_currency, product_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, o.URL, o.Price, o.PriceCurrency, o.ProductID)
	if err := row.Scan(&o.ID); err != nil {
		return fmt.Errorf("error creating offer: %w", classify(err))
	}
	return nil
}

func (r *OfferRepository) Update(ctx context.Context, o *entity.Offer) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE offer
		SET url = $2, price = $3, price_currency = $4, product_id = $5
		WHERE id = $1
		RETURNING id
	`, o.ID, o.URL, o.Price, o.PriceCurrency, o.ProductID)
	if err := row.Scan(&o.ID); err != nil {
		return fmt.Errorf("error updating offer: %w", classify(err))
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id int64) (*entity.Offer, error) {
	o, err := scanOffer(r.pool.QueryRow(ctx, "DELETE FROM offer WHERE id = $1 RETURNING "+offerColumns, id))
	if err != nil {
		return nil, fmt.Errorf("error deleting offer: %w", classify(err))
	}
	return o, nil
}

var _ repository.OfferRepository = (*OfferRepository)(nil)
