package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

// Read and write projections are kept as separate types even where their
// fields coincide, so input and output can diverge independently.

type OfferRead struct {
	ID            int64  `json:"id"`
	URL           string `json:"url"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	Product       *int64 `json:"product"`
}

type OfferWrite struct {
	URL           string `json:"url" binding:"required,url"`
	Price         string `json:"price" binding:"required,decimal"`
	PriceCurrency string `json:"priceCurrency" binding:"required,currency"`
	Product       *int64 `json:"product" binding:"omitempty,gt=0"`
}

// OfferPatch keeps product raw: an explicit null detaches the offer, an
// absent key leaves it where it is.
type OfferPatch struct {
	URL           *string         `json:"url" binding:"omitempty,url"`
	Price         *string         `json:"price" binding:"omitempty,decimal"`
	PriceCurrency *string         `json:"priceCurrency" binding:"omitempty,currency"`
	Product       json.RawMessage `json:"product"`
}

type ProductRead struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	URL         string      `json:"url"`
	Offers      []OfferRead `json:"offers"`
}

type ProductWrite struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Image       string  `json:"image"`
	URL         string  `json:"url"`
	Offers      []int64 `json:"offers" binding:"omitempty,dive,gt=0"`
}

type ProductPatch struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description" binding:"omitempty,min=1"`
	Image       *string `json:"image"`
	URL         *string `json:"url"`
	Offers      []int64 `json:"offers" binding:"omitempty,dive,gt=0"`
}

func toOfferRead(o *entity.Offer) OfferRead {
	return OfferRead{ID: o.ID, URL: o.URL, Price: o.Price, PriceCurrency: o.PriceCurrency, Product: o.ProductID}
}

func toOfferReads(offers []*entity.Offer) []OfferRead {
	out := make([]OfferRead, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOfferRead(o))
	}
	return out
}

func toProductRead(p *entity.Product) ProductRead {
	return ProductRead{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		URL:         p.URL,
		Offers:      toOfferReads(p.Offers),
	}
}

func toProductReads(products []*entity.Product) []ProductRead {
	out := make([]ProductRead, 0, len(products))
	for _, p := range products {
		out = append(out, toProductRead(p))
	}
	return out
}

func (w ProductWrite) input() application.ProductInput {
	return application.ProductInput{Name: w.Name, Description: w.Description, Image: w.Image, URL: w.URL, OfferIDs: w.Offers}
}

func (p ProductPatch) patch() application.ProductPatch {
	return application.ProductPatch{Name: p.Name, Description: p.Description, Image: p.Image, URL: p.URL, OfferIDs: p.Offers}
}

func (w OfferWrite) input() application.OfferInput {
	return application.OfferInput{URL: w.URL, Price: w.Price, PriceCurrency: w.PriceCurrency, ProductID: w.Product}
}

func (p OfferPatch) patch() (application.OfferPatch, error) {
	out := application.OfferPatch{URL: p.URL, Price: p.Price, PriceCurrency: p.PriceCurrency}
	raw := bytes.TrimSpace(p.Product)
	if len(raw) == 0 {
		return out, nil
	}
	out.ProductSet = true
	if bytes.Equal(raw, []byte("null")) {
		return out, nil
	}
	var id int64
	if err := json.Unmarshal(raw, &id); err != nil || id <= 0 {
		return out, application.NewValidationError("product", "must be a product id or null")
	}
	out.ProductID = &id
	return out, nil
}
