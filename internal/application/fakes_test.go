package application

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

// memUsers enforces email uniqueness the way the users_email_key index does.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
	err   error
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[u.Email]; ok {
		return errors.Join(repo.ErrDuplicate, errors.New("users_email_key"))
	}
	u.ID = "user-" + u.Email
	u.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// memCatalog backs both the product and the offer repository.
type memCatalog struct {
	products map[int64]entity.Product
	offers   map[int64]entity.Offer
	nextID   int64
	err      error
	reads    int
}

func newMemCatalog() *memCatalog {
	return &memCatalog{products: map[int64]entity.Product{}, offers: map[int64]entity.Offer{}}
}

func (m *memCatalog) id() int64 { m.nextID++; return m.nextID }

func (m *memCatalog) offerCopy(o entity.Offer) *entity.Offer {
	if o.ProductID != nil {
		id := *o.ProductID
		o.ProductID = &id
	}
	return &o
}

func (m *memCatalog) hydrate(p entity.Product) *entity.Product {
	p.Offers = []*entity.Offer{}
	ids := make([]int64, 0)
	for id, o := range m.offers {
		if o.ProductID != nil && *o.ProductID == p.ID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		p.Offers = append(p.Offers, m.offerCopy(m.offers[id]))
	}
	return &p
}

type memProducts struct{ *memCatalog }

func (m memProducts) List(_ context.Context, f repo.ProductFilter) ([]*entity.Product, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var out []*entity.Product
	for _, p := range m.products {
		hp := m.hydrate(p)
		if len(f.IDs) > 0 && !containsID(f.IDs, p.ID) {
			continue
		}
		if f.Description != "" && !strings.Contains(strings.ToLower(p.Description), strings.ToLower(f.Description)) {
			continue
		}
		if f.Price != "" {
			match := false
			for _, o := range hp.Offers {
				match = match || o.Price == f.Price
			}
			if !match {
				continue
			}
		}
		out = append(out, hp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m memProducts) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return m.hydrate(p), nil
}

func (m memProducts) attach(productID int64, offerIDs []int64) error {
	for _, id := range offerIDs {
		if _, ok := m.offers[id]; !ok {
			return repo.ErrUnknownReference
		}
	}
	for _, id := range offerIDs {
		o := m.offers[id]
		pid := productID
		o.ProductID = &pid
		m.offers[id] = o
	}
	return nil
}

func (m memProducts) Create(_ context.Context, p *entity.Product, offerIDs []int64) error {
	if m.err != nil {
		return m.err
	}
	for _, id := range offerIDs {
		if _, ok := m.offers[id]; !ok {
			return repo.ErrUnknownReference
		}
	}
	p.ID = m.id()
	row := *p
	row.Offers = nil
	m.products[p.ID] = row
	_ = m.attach(p.ID, offerIDs)
	*p = *m.hydrate(row)
	return nil
}

func (m memProducts) Update(_ context.Context, p *entity.Product, offerIDs []int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	for _, id := range offerIDs {
		if _, ok := m.offers[id]; !ok {
			return repo.ErrUnknownReference
		}
	}
	row := *p
	row.Offers = nil
	m.products[p.ID] = row
	if offerIDs != nil {
		for id, o := range m.offers {
			if o.ProductID != nil && *o.ProductID == p.ID && !containsID(offerIDs, id) {
				o.ProductID = nil
				m.offers[id] = o
			}
		}
		_ = m.attach(p.ID, offerIDs)
	}
	*p = *m.hydrate(row)
	return nil
}

func (m memProducts) Delete(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.products, id)
	for oid, o := range m.offers {
		if o.ProductID != nil && *o.ProductID == id {
			o.ProductID = nil
			m.offers[oid] = o
		}
	}
	return nil
}

func (m memProducts) AttachOffer(_ context.Context, productID, offerID int64) (*entity.Offer, error) {
	if _, ok := m.products[productID]; !ok {
		return nil, repo.ErrNotFound
	}
	if _, ok := m.offers[offerID]; !ok {
		return nil, repo.ErrNotFound
	}
	_ = m.attach(productID, []int64{offerID})
	return m.offerCopy(m.offers[offerID]), nil
}

func (m memProducts) DetachOffer(_ context.Context, productID, offerID int64) (*entity.Offer, error) {
	o, ok := m.offers[offerID]
	if !ok || o.ProductID == nil || *o.ProductID != productID {
		return nil, repo.ErrNotFound
	}
	o.ProductID = nil
	m.offers[offerID] = o
	return m.offerCopy(o), nil
}

func (m memProducts) SetImage(_ context.Context, productID int64, image string) error {
	p, ok := m.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Image = image
	m.products[productID] = p
	return nil
}

type memOffers struct{ *memCatalog }

func (m memOffers) List(_ context.Context, f repo.OfferFilter) ([]*entity.Offer, int, error) {
	var out []*entity.Offer
	for _, o := range m.offers {
		if f.ProductID != nil && (o.ProductID == nil || *o.ProductID != *f.ProductID) {
			continue
		}
		out = append(out, m.offerCopy(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m memOffers) GetByID(_ context.Context, id int64) (*entity.Offer, error) {
	o, ok := m.offers[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return m.offerCopy(o), nil
}

func (m memOffers) Create(_ context.Context, o *entity.Offer) error {
	if o.ProductID != nil {
		if _, ok := m.products[*o.ProductID]; !ok {
			return repo.ErrUnknownReference
		}
	}
	o.ID = m.id()
	m.offers[o.ID] = *m.offerCopy(*o)
	return nil
}

func (m memOffers) Update(_ context.Context, o *entity.Offer) error {
	if _, ok := m.offers[o.ID]; !ok {
		return repo.ErrNotFound
	}
	if o.ProductID != nil {
		if _, ok := m.products[*o.ProductID]; !ok {
			return repo.ErrUnknownReference
		}
	}
	m.offers[o.ID] = *m.offerCopy(*o)
	return nil
}

func (m memOffers) Delete(_ context.Context, id int64) (*entity.Offer, error) {
	o, ok := m.offers[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	delete(m.offers, id)
	return m.offerCopy(o), nil
}

func containsID(ids []int64, id int64) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, body)
	return p.err
}

type recordingIndex struct {
	docs    map[int64]helpers.ProductDocument
	deleted []int64
	hits    []int64
	err     error
}

func newRecordingIndex() *recordingIndex {
	return &recordingIndex{docs: map[int64]helpers.ProductDocument{}}
}

func (x *recordingIndex) Index(_ context.Context, doc helpers.ProductDocument) error {
	x.docs[doc.ID] = doc
	return x.err
}

func (x *recordingIndex) Delete(_ context.Context, id int64) error {
	delete(x.docs, id)
	x.deleted = append(x.deleted, id)
	return x.err
}

func (x *recordingIndex) Search(_ context.Context, _ string, _ int) ([]int64, error) {
	return x.hits, x.err
}

type memImages struct {
	path        string
	contentType string
	body        []byte
	err         error
}

func (s *memImages) Store(_ context.Context, r io.Reader, objectPath, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.path, s.contentType, s.body = objectPath, contentType, b
	return "https://img.test/" + objectPath, nil
}

// plainHasher is reversible on purpose so tests stay fast; real hashers are
// covered in pkg/helpers.
type plainHasher struct{ err error }

func (h plainHasher) Hash(plain string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

func (h plainHasher) Verify(hash, plain string) bool { return hash == "hashed:"+plain }
