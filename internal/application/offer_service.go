package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-catalog/pkg/validation"
)

type OfferService struct {
	Offers repo.OfferRepository
	Logger *logrus.Logger

	sync *catalogSync
}

func NewOfferService(offers repo.OfferRepository, products repo.ProductRepository, cache *ProductCache, index ProductIndex, logger *logrus.Logger) *OfferService {
	return &OfferService{
		Offers: offers,
		Logger: logger,
		sync:   &catalogSync{products: products, cache: cache, index: index, logger: logger},
	}
}

type OfferInput struct {
	URL           string
	Price         string
	PriceCurrency string
	ProductID     *int64
}

// OfferPatch carries only the fields the client sent. ProductSet
// distinguishes an explicit null (detach) from an absent product.
type OfferPatch struct {
	URL           *string
	Price         *string
	PriceCurrency *string
	ProductSet    bool
	ProductID     *int64
}

type OfferQuery struct {
	ProductID    *int64
	Page         int
	ItemsPerPage int
}

var fields = validator.New()

// validateOffer re-checks the rules the HTTP binding enforces, so writes that
// do not come through a handler (seeder, patches) obey them too.
func validateOffer(o *entity.Offer) error {
	o.URL = strings.TrimSpace(o.URL)
	o.Price = strings.TrimSpace(o.Price)
	o.PriceCurrency = strings.TrimSpace(o.PriceCurrency)
	switch {
	case o.URL == "":
		return NewValidationError("url", "is required")
	case fields.Var(o.URL, "url") != nil:
		return NewValidationError("url", "must be a valid URL")
	case o.Price == "":
		return NewValidationError("price", "is required")
	case !validation.IsDecimal(o.Price):
		return NewValidationError("price", "must be a decimal number")
	case o.PriceCurrency == "":
		return NewValidationError("priceCurrency", "is required")
	case len(o.PriceCurrency) > 16:
		return NewValidationError("priceCurrency", "must be a currency code of 1 to 16 characters")
	case o.ProductID != nil && *o.ProductID <= 0:
		return NewValidationError("product", "must be a positive product id")
	}
	return nil
}

func (s *OfferService) List(ctx context.Context, q OfferQuery) (*Page[*entity.Offer], error) {
	limit, offset, page, perPage, err := paginate(q.Page, q.ItemsPerPage)
	if err != nil {
		return nil, err
	}
	items, total, err := s.Offers.List(ctx, repo.OfferFilter{ProductID: q.ProductID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, translate("list offers", err)
	}
	if items == nil {
		items = []*entity.Offer{}
	}
	return &Page[*entity.Offer]{Items: items, Total: total, Page: page, ItemsPerPage: perPage}, nil
}

func (s *OfferService) Get(ctx context.Context, id int64) (*entity.Offer, error) {
	o, err := s.Offers.GetByID(ctx, id)
	if err != nil {
		return nil, translate(fmt.Sprintf("offer %d", id), err)
	}
	return o, nil
}

func (s *OfferService) Create(ctx context.Context, in OfferInput) (*entity.Offer, error) {
	o := &entity.Offer{URL: in.URL, Price: in.Price, PriceCurrency: in.PriceCurrency, ProductID: in.ProductID}
	if err := validateOffer(o); err != nil {
		return nil, err
	}
	if err := s.Offers.Create(ctx, o); err != nil {
		return nil, s.writeError("create offer", err)
	}
	s.sync.touched(ctx, ownerOf(o))
	return o, nil
}

func (s *OfferService) Replace(ctx context.Context, id int64, in OfferInput) (*entity.Offer, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	o := &entity.Offer{ID: id, URL: in.URL, Price: in.Price, PriceCurrency: in.PriceCurrency, ProductID: in.ProductID}
	return s.update(ctx, o, ownerOf(current))
}

func (s *OfferService) Patch(ctx context.Context, id int64, in OfferPatch) (*entity.Offer, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := ownerOf(o)
	if in.URL != nil {
		o.URL = *in.URL
	}
	if in.Price != nil {
		o.Price = *in.Price
	}
	if in.PriceCurrency != nil {
		o.PriceCurrency = *in.PriceCurrency
	}
	if in.ProductSet {
		o.ProductID = in.ProductID
	}
	return s.update(ctx, o, previous)
}

func (s *OfferService) update(ctx context.Context, o *entity.Offer, previousOwner int64) (*entity.Offer, error) {
	if err := validateOffer(o); err != nil {
		return nil, err
	}
	if err := s.Offers.Update(ctx, o); err != nil {
		return nil, s.writeError(fmt.Sprintf("update offer %d", o.ID), err)
	}
	s.sync.touched(ctx, previousOwner, ownerOf(o))
	return o, nil
}

// Delete removes the offer; the owning product, if any, loses it.
func (s *OfferService) Delete(ctx context.Context, id int64) error {
	o, err := s.Offers.Delete(ctx, id)
	if err != nil {
		return translate(fmt.Sprintf("delete offer %d", id), err)
	}
	s.sync.touched(ctx, ownerOf(o))
	return nil
}

func (s *OfferService) writeError(what string, err error) error {
	if errors.Is(err, repo.ErrUnknownReference) {
		return NewValidationError("product", "references an unknown product")
	}
	return translate(what, err)
}
