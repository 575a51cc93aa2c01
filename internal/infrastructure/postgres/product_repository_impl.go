package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

const offerColumns = "id, url, price, price_currency, product_id"

type ProductRepository struct {
	pool PgxPool
	uow  *UnitOfWork
}

func NewProductRepository(pool PgxPool) *ProductRepository {
	return &ProductRepository{pool: pool, uow: NewUnitOfWork(pool)}
}

func (r *ProductRepository) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	where, args := productWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM product p"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting products: %w", classify(err))
	}

	query := "SELECT p.id, p.name, p.description, p.image, p.url FROM product p" + where + productOrder(f.Sort)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing products: %w", classify(err))
	}
	defer rows.Close()

	var (
		products []*entity.Product
		ids      []int64
	)
	byID := map[int64]*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, p)
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error listing products: %w", classify(err))
	}

	if len(ids) > 0 {
		offers, err := queryOffers(ctx, r.pool,
			"SELECT "+offerColumns+" FROM offer WHERE product_id = ANY($1) ORDER BY id", ids)
		if err != nil {
			return nil, 0, fmt.Errorf("error loading offers: %w", err)
		}
		for _, o := range offers {
			if p := byID[*o.ProductID]; p != nil {
				p.Offers = append(p.Offers, o)
			}
		}
	}

	return products, int(total), nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := getProduct(ctx, r.pool, id)
	if err != nil {
		return nil, fmt.Errorf("error querying product by id: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product, offerIDs []int64) error {
	err := r.uow.Do(ctx, func(q Querier) error {
		row := q.QueryRow(ctx, `
			INSERT INTO product (name, description, image, url)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, p.Name, p.Description, p.Image, p.URL)
		if err := row.Scan(&p.ID); err != nil {
			return classify(err)
		}
		if err := attachAll(ctx, q, p.ID, offerIDs); err != nil {
			return err
		}
		return loadOffers(ctx, q, p)
	})
	if err != nil {
		return fmt.Errorf("error creating product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product, offerIDs []int64) error {
	err := r.uow.Do(ctx, func(q Querier) error {
		row := q.QueryRow(ctx, `
			UPDATE product
			SET name = $2, description = $3, image = $4, url = $5
			WHERE id = $1
			RETURNING id
		`, p.ID, p.Name, p.Description, p.Image, p.URL)
		if err := row.Scan(&p.ID); err != nil {
			return classify(err)
		}
		if offerIDs != nil {
			ids := uniqueIDs(offerIDs)
			if _, err := q.Exec(ctx, `
				UPDATE offer SET product_id = NULL
				WHERE product_id = $1 AND NOT (id = ANY($2))
			`, p.ID, ids); err != nil {
				return classify(err)
			}
			if err := attachAll(ctx, q, p.ID, ids); err != nil {
				return err
			}
		}
		return loadOffers(ctx, q, p)
	})
	if err != nil {
		return fmt.Errorf("error updating product: %w", err)
	}
	return nil
}

// Delete removes the product; the offer.product_id foreign key is
// ON DELETE SET NULL, so its offers survive detached.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM product WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting product: %w", classify(err))
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("error deleting product: %w", repository.ErrNotFound)
	}
	return nil
}

// AttachOffer points the offer at the product. Attaching an offer that is
// already attached is a no-op; an offer owned by another product moves.
func (r *ProductRepository) AttachOffer(ctx context.Context, productID, offerID int64) (*entity.Offer, error) {
	var offer *entity.Offer
	err := r.uow.Do(ctx, func(q Querier) error {
		if err := lockProduct(ctx, q, productID); err != nil {
			return err
		}
		o, err := scanOffer(q.QueryRow(ctx, `
			UPDATE offer SET product_id = $1
			WHERE id = $2
			RETURNING `+offerColumns, productID, offerID))
		if err != nil {
			return classify(err)
		}
		offer = o
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error attaching offer: %w", err)
	}
	return offer, nil
}

// DetachOffer clears the back-reference of an offer owned by the product.
// An offer not attached to this product yields ErrNotFound.
func (r *ProductRepository) DetachOffer(ctx context.Context, productID, offerID int64) (*entity.Offer, error) {
	o, err := scanOffer(r.pool.QueryRow(ctx, `
		UPDATE offer SET product_id = NULL
		WHERE id = $1 AND product_id = $2
		RETURNING `+offerColumns, offerID, productID))
	if err != nil {
		return nil, fmt.Errorf("error detaching offer: %w", classify(err))
	}
	return o, nil
}

func (r *ProductRepository) SetImage(ctx context.Context, productID int64, image string) error {
	res, err := r.pool.Exec(ctx, `UPDATE product SET image = $2 WHERE id = $1`, productID, image)
	if err != nil {
		return fmt.Errorf("error setting product image: %w", classify(err))
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("error setting product image: %w", repository.ErrNotFound)
	}
	return nil
}

func getProduct(ctx context.Context, q Querier, id int64) (*entity.Product, error) {
	p, err := scanProduct(q.QueryRow(ctx, `
		SELECT id, name, description, image, url
		FROM product
		WHERE id = $1
	`, id))
	if err != nil {
		return nil, classify(err)
	}
	if err := loadOffers(ctx, q, p); err != nil {
		return nil, err
	}
	return p, nil
}

func lockProduct(ctx context.Context, q Querier, id int64) error {
	var locked int64
	if err := q.QueryRow(ctx, `SELECT id FROM product WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		return classify(err)
	}
	return nil
}

// attachAll points every listed offer at productID. Unknown offer ids fail
// with ErrUnknownReference.
func attachAll(ctx context.Context, q Querier, productID int64, offerIDs []int64) error {
	ids := uniqueIDs(offerIDs)
	if len(ids) == 0 {
		return nil
	}
	res, err := q.Exec(ctx, `UPDATE offer SET product_id = $1 WHERE id = ANY($2)`, productID, ids)
	if err != nil {
		return classify(err)
	}
	if res.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("%w: offers", repository.ErrUnknownReference)
	}
	return nil
}

func loadOffers(ctx context.Context, q Querier, p *entity.Product) error {
	offers, err := queryOffers(ctx, q, "SELECT "+offerColumns+" FROM offer WHERE product_id = $1 ORDER BY id", p.ID)
	if err != nil {
		return err
	}
	p.Offers = offers
	return nil
}

func queryOffers(ctx context.Context, q Querier, sql string, args ...any) ([]*entity.Offer, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	offers := []*entity.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return offers, nil
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	p := &entity.Product{Offers: []*entity.Offer{}}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.URL); err != nil {
		return nil, err
	}
	return p, nil
}

func scanOffer(row rowScanner) (*entity.Offer, error) {
	o := &entity.Offer{}
	var productID pgtype.Int8
	if err := row.Scan(&o.ID, &o.URL, &o.Price, &o.PriceCurrency, &productID); err != nil {
		return nil, err
	}
	if productID.Valid {
		id := productID.Int64
		o.ProductID = &id
	}
	return o, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
