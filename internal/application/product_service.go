package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

const DefaultMaxUploadBytes = 5 << 20

type ProductService struct {
	Products       repo.ProductRepository
	Offers         repo.OfferRepository
	Cache          *ProductCache
	Index          ProductIndex
	Images         ImageStore
	MaxUploadBytes int64
	Logger         *logrus.Logger

	sync *catalogSync
}

func NewProductService(products repo.ProductRepository, offers repo.OfferRepository, cache *ProductCache, index ProductIndex, images ImageStore, logger *logrus.Logger) *ProductService {
	return &ProductService{
		Products:       products,
		Offers:         offers,
		Cache:          cache,
		Index:          index,
		Images:         images,
		MaxUploadBytes: DefaultMaxUploadBytes,
		Logger:         logger,
		sync:           &catalogSync{products: products, cache: cache, index: index, logger: logger},
	}
}

// ProductInput is a full product write. A nil OfferIDs leaves the offer set
// alone on update; a non-nil one (even empty) replaces it.
type ProductInput struct {
	Name        string
	Description string
	Image       string
	URL         string
	OfferIDs    []int64
}

// ProductPatch carries only the fields the client sent.
type ProductPatch struct {
	Name        *string
	Description *string
	Image       *string
	URL         *string
	OfferIDs    []int64
}

type ProductQuery struct {
	Filter       repo.ProductFilter
	Page         int
	ItemsPerPage int
}

func validateProduct(p *entity.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return NewValidationError("name", "is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return NewValidationError("description", "is required")
	}
	return nil
}

func validateOfferIDs(ids []int64) error {
	for _, id := range ids {
		if id <= 0 {
			return NewValidationError("offers", "must contain positive offer ids")
		}
	}
	return nil
}

func (s *ProductService) List(ctx context.Context, q ProductQuery) (*Page[*entity.Product], error) {
	limit, offset, page, perPage, err := paginate(q.Page, q.ItemsPerPage)
	if err != nil {
		return nil, err
	}
	f := q.Filter
	f.Limit, f.Offset = limit, offset

	items, total, err := s.Products.List(ctx, f)
	if err != nil {
		return nil, translate("list products", err)
	}
	if items == nil {
		items = []*entity.Product{}
	}
	return &Page[*entity.Product]{Items: items, Total: total, Page: page, ItemsPerPage: perPage}, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*entity.Product, error) {
	if p, ok := s.Cache.get(ctx, id); ok {
		return p, nil
	}
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, translate(fmt.Sprintf("product %d", id), err)
	}
	s.Cache.put(ctx, p)
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	p := &entity.Product{Name: in.Name, Description: in.Description, Image: in.Image, URL: in.URL}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := validateOfferIDs(in.OfferIDs); err != nil {
		return nil, err
	}

	previous := s.previousOwners(ctx, in.OfferIDs)
	if err := s.Products.Create(ctx, p, in.OfferIDs); err != nil {
		return nil, s.writeError("create product", err)
	}
	s.sync.touched(ctx, append(previous, p.ID)...)
	return p, nil
}

// Replace overwrites every writable field of the product.
func (s *ProductService) Replace(ctx context.Context, id int64, in ProductInput) (*entity.Product, error) {
	p := &entity.Product{ID: id, Name: in.Name, Description: in.Description, Image: in.Image, URL: in.URL}
	return s.update(ctx, p, in.OfferIDs)
}

func (s *ProductService) Patch(ctx context.Context, id int64, in ProductPatch) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, translate(fmt.Sprintf("product %d", id), err)
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.URL != nil {
		p.URL = *in.URL
	}
	return s.update(ctx, p, in.OfferIDs)
}

func (s *ProductService) update(ctx context.Context, p *entity.Product, offerIDs []int64) (*entity.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := validateOfferIDs(offerIDs); err != nil {
		return nil, err
	}

	previous := s.previousOwners(ctx, offerIDs)
	if err := s.Products.Update(ctx, p, offerIDs); err != nil {
		return nil, s.writeError(fmt.Sprintf("update product %d", p.ID), err)
	}
	s.sync.touched(ctx, append(previous, p.ID)...)
	return p, nil
}

// Delete removes the product. Its offers stay, detached.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.Products.Delete(ctx, id); err != nil {
		return translate(fmt.Sprintf("delete product %d", id), err)
	}
	s.sync.touched(ctx, id)
	return nil
}

func (s *ProductService) ListOffers(ctx context.Context, id int64) ([]*entity.Offer, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Offers, nil
}

// AddOffer attaches the offer to the product. Repeating the call is a no-op;
// an offer owned by another product moves here.
func (s *ProductService) AddOffer(ctx context.Context, productID, offerID int64) (*entity.Offer, error) {
	current, err := s.Offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, translate(fmt.Sprintf("offer %d", offerID), err)
	}
	if current.ProductID != nil && *current.ProductID == productID {
		return current, nil
	}
	o, err := s.Products.AttachOffer(ctx, productID, offerID)
	if err != nil {
		return nil, translate(fmt.Sprintf("attach offer %d to product %d", offerID, productID), err)
	}
	s.sync.touched(ctx, productID, ownerOf(current))
	return o, nil
}

// RemoveOffer detaches an offer the product owns.
func (s *ProductService) RemoveOffer(ctx context.Context, productID, offerID int64) (*entity.Offer, error) {
	o, err := s.Products.DetachOffer(ctx, productID, offerID)
	if err != nil {
		return nil, translate(fmt.Sprintf("offer %d of product %d", offerID, productID), err)
	}
	s.sync.touched(ctx, productID)
	return o, nil
}

// UploadImage stores an image for the product and records its reference.
// The content type is sniffed from the first bytes, not trusted from the client.
func (s *ProductService) UploadImage(ctx context.Context, id int64, r io.Reader, filename string, size int64) (*entity.Product, error) {
	if s.Images == nil {
		return nil, fmt.Errorf("image storage not configured: %w", ErrUnavailable)
	}
	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	if size > limit {
		return nil, NewValidationError("imageFile", fmt.Sprintf("must be at most %d bytes", limit))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w: %w", ErrPersistence, err)
	}
	if n == 0 {
		return nil, NewValidationError("imageFile", "is empty")
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return nil, NewValidationError("imageFile", "must be an image")
	}

	if _, err := s.Products.GetByID(ctx, id); err != nil {
		return nil, translate(fmt.Sprintf("product %d", id), err)
	}

	body := io.LimitReader(io.MultiReader(bytes.NewReader(head[:n]), r), limit)
	ref, err := s.Images.Store(ctx, body, helpers.ObjectKey(fmt.Sprintf("products/%d", id), filename), contentType)
	if err != nil {
		return nil, fmt.Errorf("store image: %w: %w", ErrPersistence, err)
	}
	if err := s.Products.SetImage(ctx, id, ref); err != nil {
		return nil, translate(fmt.Sprintf("set image of product %d", id), err)
	}
	s.sync.touched(ctx, id)

	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, translate(fmt.Sprintf("product %d", id), err)
	}
	return p, nil
}

// Search returns products matching q ordered by relevance.
func (s *ProductService) Search(ctx context.Context, q string, limit int) ([]*entity.Product, error) {
	if s.Index == nil {
		return nil, fmt.Errorf("search not configured: %w", ErrUnavailable)
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, NewValidationError("q", "is required")
	}
	if limit <= 0 || limit > MaxItemsPerPage {
		limit = DefaultItemsPerPage
	}

	ids, err := s.Index.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w: %w", ErrUnavailable, err)
	}
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}
	found, _, err := s.Products.List(ctx, repo.ProductFilter{IDs: ids, Limit: len(ids)})
	if err != nil {
		return nil, translate("load search hits", err)
	}
	byID := make(map[int64]*entity.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]*entity.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Reindex pushes every product into the search index.
func (s *ProductService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, fmt.Errorf("search not configured: %w", ErrUnavailable)
	}
	count := 0
	for offset := 0; ; offset += MaxItemsPerPage {
		items, _, err := s.Products.List(ctx, repo.ProductFilter{Limit: MaxItemsPerPage, Offset: offset})
		if err != nil {
			return count, translate("list products", err)
		}
		for _, p := range items {
			if err := s.Index.Index(ctx, toDocument(p)); err != nil {
				return count, fmt.Errorf("index product %d: %w", p.ID, err)
			}
			count++
		}
		if len(items) < MaxItemsPerPage {
			return count, nil
		}
	}
}

// previousOwners finds the products currently holding offerIDs, so their
// cached views can be dropped once the offers move.
func (s *ProductService) previousOwners(ctx context.Context, offerIDs []int64) []int64 {
	var owners []int64
	for _, id := range offerIDs {
		o, err := s.Offers.GetByID(ctx, id)
		if err != nil {
			continue
		}
		owners = append(owners, ownerOf(o))
	}
	return owners
}

func (s *ProductService) writeError(what string, err error) error {
	if errors.Is(err, repo.ErrUnknownReference) {
		return NewValidationError("offers", "references an unknown offer")
	}
	return translate(what, err)
}
