package entity

// Offer is a price/currency/url tuple, optionally attached to one product.
type Offer struct {
	ID            int64
	URL           string
	Price         string
	PriceCurrency string
	ProductID     *int64
}

// SetProduct points the offer at p, or detaches it when p is nil.
// Prefer Product.AddOffer/RemoveOffer, which keep both sides in sync.
func (o *Offer) SetProduct(p *Product) {
	if p == nil {
		o.ProductID = nil
		return
	}
	id := p.ID
	o.ProductID = &id
}

// BelongsTo reports whether the offer currently points at p.
func (o *Offer) BelongsTo(p *Product) bool {
	return p != nil && o.ProductID != nil && *o.ProductID == p.ID
}
