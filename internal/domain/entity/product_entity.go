package entity

// Product is the catalog aggregate root. It owns its offers: every offer in
// Offers points back at the product through Offer.ProductID.
type Product struct {
	ID          int64
	Name        string
	Description string
	Image       string
	URL         string
	Offers      []*Offer
}

// String returns the product URL, its human-readable identity.
func (p *Product) String() string {
	return p.URL
}

// HasOffer reports whether o is already part of the product's offers.
// Offers are matched by pointer, or by ID once persisted.
func (p *Product) HasOffer(o *Offer) bool {
	return p.indexOf(o) >= 0
}

// AddOffer appends o and points it at p. Adding the same offer twice is a no-op.
func (p *Product) AddOffer(o *Offer) *Product {
	if o == nil || p.HasOffer(o) {
		return p
	}
	p.Offers = append(p.Offers, o)
	o.SetProduct(p)
	return p
}

// RemoveOffer drops o from the offers and clears its back-reference, unless
// the offer was already moved to another product.
func (p *Product) RemoveOffer(o *Offer) *Product {
	i := p.indexOf(o)
	if i < 0 {
		return p
	}
	removed := p.Offers[i]
	p.Offers = append(p.Offers[:i], p.Offers[i+1:]...)
	if removed.BelongsTo(p) {
		removed.SetProduct(nil)
	}
	if removed != o && o.BelongsTo(p) {
		o.SetProduct(nil)
	}
	return p
}

func (p *Product) indexOf(o *Offer) int {
	if o == nil {
		return -1
	}
	for i, existing := range p.Offers {
		if existing == o || (o.ID != 0 && existing.ID == o.ID) {
			return i
		}
	}
	return -1
}
