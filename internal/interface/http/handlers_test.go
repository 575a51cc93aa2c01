package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
	"github.com/oksasatya/go-ddd-catalog/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Status    int             `json:"status"`
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Meta      json.RawMessage `json:"meta"`
	Error     json.RawMessage `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return record(t, r, req)
}

func record(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func errorFields(t *testing.T, env envelope) map[string]string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &m), string(env.Error))
	return m
}

// stubUsers answers with canned values.
type stubUsers struct {
	registerErr error
	loginErr    error
	gotEmail    string
}

func (s *stubUsers) Register(_ context.Context, email, _ string) (*entity.User, error) {
	s.gotEmail = email
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &entity.User{ID: "0b6b2a4e-1111-4c1e-9a55-3c6f3f0c2d11", Email: email}, nil
}

func (s *stubUsers) Login(_ context.Context, email, _ string) (*application.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &application.LoginResult{UserID: "u1", Email: email, AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubUsers) GetProfile(_ context.Context, id string) (*entity.User, error) {
	return &entity.User{ID: id, Email: "me@example.com"}, nil
}

func userRouter(svc UserService) *gin.Engine {
	h := NewUserHandler(svc, helpers.NewDiscardLogger(), "", false)
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.POST("/register", h.Register)
	r.POST("/api/login", h.Login)
	r.GET("/api/me", func(c *gin.Context) { c.Set(middleware.CtxUserIDKey, "u1") }, h.Me)
	return r
}

func TestRegister(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubUsers{}
		w, env := do(t, userRouter(svc), http.MethodPost, "/register", `{"email":" New@Example.com ","password":"pw"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "User  New@Example.com  successfully created", env.Message)
		assert.JSONEq(t, `{"id":"0b6b2a4e-1111-4c1e-9a55-3c6f3f0c2d11","email":" New@Example.com "}`, string(env.Data))
		assert.NotContains(t, string(env.Data), "created_at")
		assert.NotEmpty(t, env.RequestID)
		assert.Equal(t, " New@Example.com ", svc.gotEmail)
	})

	cases := []struct {
		name   string
		body   string
		err    error
		status int
		fields map[string]string
	}{
		{name: "empty body", body: "", status: http.StatusBadRequest, fields: map[string]string{"payload": "request body is required"}},
		{name: "not json", body: "email=a", status: http.StatusBadRequest, fields: map[string]string{"payload": "invalid json"}},
		{name: "missing password", body: `{"email":"a@example.com"}`, status: http.StatusBadRequest, fields: map[string]string{"password": "is required"}},
		{name: "empty email", body: `{"email":"","password":"pw"}`, status: http.StatusBadRequest, fields: map[string]string{"email": "is required"}},
		{name: "duplicate", body: `{"email":"a@example.com","password":"pw"}`, err: fmt.Errorf("create user: %w", application.ErrConflict), status: http.StatusConflict},
		{name: "store down", body: `{"email":"a@example.com","password":"pw"}`, err: fmt.Errorf("create user: %w: %w", application.ErrPersistence, errors.New("dial tcp: refused")), status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := do(t, userRouter(&stubUsers{registerErr: tc.err}), http.MethodPost, "/register", tc.body)

			assert.Equal(t, tc.status, w.Code)
			assert.False(t, env.Success)
			if tc.fields != nil {
				assert.Equal(t, tc.fields, errorFields(t, env))
			}
			assert.NotContains(t, w.Body.String(), "dial tcp")
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("sets the access cookie", func(t *testing.T) {
		w, env := do(t, userRouter(&stubUsers{}), http.MethodPost, "/api/login", `{"email":"a@example.com","password":"pw"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), helpers.AccessCookie+"=tok")
		assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")
		assert.Contains(t, string(env.Data), `"user_id":"u1"`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		w, env := do(t, userRouter(&stubUsers{loginErr: application.ErrInvalidCredentials}), http.MethodPost, "/api/login", `{"email":"a@example.com","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid credentials", env.Message)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("me", func(t *testing.T) {
		w, env := do(t, userRouter(&stubUsers{}), http.MethodGet, "/api/me", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), `"id":"u1"`)
	})
}

type stubProducts struct {
	ProductService

	query    application.ProductQuery
	input    application.ProductInput
	patch    application.ProductPatch
	err      error
	uploaded []byte
	filename string
}

func (s *stubProducts) product(id int64) *entity.Product {
	owner := id
	return &entity.Product{
		ID: id, Name: "Phone", Description: "A phone", URL: "https://shop.test/p",
		Offers: []*entity.Offer{{ID: 3, URL: "https://shop.test/o/3", Price: "9.99", PriceCurrency: "USD", ProductID: &owner}},
	}
}

func (s *stubProducts) List(_ context.Context, q application.ProductQuery) (*application.Page[*entity.Product], error) {
	s.query = q
	if s.err != nil {
		return nil, s.err
	}
	return &application.Page[*entity.Product]{Items: []*entity.Product{s.product(1)}, Total: 11, Page: 2, ItemsPerPage: 5}, nil
}

func (s *stubProducts) Get(_ context.Context, id int64) (*entity.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product(id), nil
}

func (s *stubProducts) Create(_ context.Context, in application.ProductInput) (*entity.Product, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return s.product(42), nil
}

func (s *stubProducts) Replace(_ context.Context, id int64, in application.ProductInput) (*entity.Product, error) {
	s.input = in
	return s.product(id), s.err
}

func (s *stubProducts) Patch(_ context.Context, id int64, in application.ProductPatch) (*entity.Product, error) {
	s.patch = in
	return s.product(id), s.err
}

func (s *stubProducts) Delete(context.Context, int64) error { return s.err }

func (s *stubProducts) AddOffer(_ context.Context, productID, offerID int64) (*entity.Offer, error) {
	return &entity.Offer{ID: offerID, URL: "https://shop.test/o", Price: "1", PriceCurrency: "EUR", ProductID: &productID}, s.err
}

func (s *stubProducts) RemoveOffer(_ context.Context, _, offerID int64) (*entity.Offer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Offer{ID: offerID, URL: "https://shop.test/o", Price: "1", PriceCurrency: "EUR"}, nil
}

func (s *stubProducts) UploadImage(_ context.Context, id int64, r io.Reader, filename string, _ int64) (*entity.Product, error) {
	s.uploaded, _ = io.ReadAll(r)
	s.filename = filename
	p := s.product(id)
	p.Image = "https://storage.googleapis.com/bucket/products/1/x.png"
	return p, s.err
}

func (s *stubProducts) Search(_ context.Context, q string, _ int) ([]*entity.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*entity.Product{s.product(7)}, nil
}

func productRouter(svc ProductService) *gin.Engine {
	h := NewProductHandler(svc, helpers.NewDiscardLogger())
	r := gin.New()
	api := r.Group("/api")
	api.GET("/products", h.List)
	api.GET("/products/search", h.Search)
	api.POST("/products", h.Create)
	api.GET("/products/:id", h.Get)
	api.PUT("/products/:id", h.Replace)
	api.PATCH("/products/:id", h.Patch)
	api.DELETE("/products/:id", h.Delete)
	api.PUT("/products/:id/offers/:offerId", h.AddOffer)
	api.DELETE("/products/:id/offers/:offerId", h.RemoveOffer)
	api.POST("/products/:id/image", h.UploadImage)
	return r
}

func TestProductList(t *testing.T) {
	t.Run("filters, ordering and paging", func(t *testing.T) {
		svc := &stubProducts{}
		w, env := do(t, productRouter(svc), http.MethodGet,
			"/api/products?order[name]=desc&id=1&id=2&description=Smart%20Ph&price=9.99&order[id]=asc&page=2&itemsPerPage=5", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []int64{1, 2}, svc.query.Filter.IDs)
		assert.Equal(t, "9.99", svc.query.Filter.Price)
		assert.Equal(t, "Smart Ph", svc.query.Filter.Description)
		require.Len(t, svc.query.Filter.Sort, 2)
		assert.Equal(t, "name", string(svc.query.Filter.Sort[0].Field))
		assert.True(t, svc.query.Filter.Sort[0].Desc)
		assert.Equal(t, "id", string(svc.query.Filter.Sort[1].Field))
		assert.False(t, svc.query.Filter.Sort[1].Desc)
		assert.Equal(t, 2, svc.query.Page)
		assert.Equal(t, 5, svc.query.ItemsPerPage)
		assert.JSONEq(t, `{"total":11,"page":2,"itemsPerPage":5}`, string(env.Meta))
		assert.Contains(t, string(env.Data), `"priceCurrency":"USD"`)
		assert.Contains(t, string(env.Data), `"product":1`)
	})

	bad := map[string]string{
		"order[name]=sideways": "order[name]",
		"id=abc":               "id",
		"id=0":                 "id",
		"page=x":               "page",
	}
	for query, field := range bad {
		t.Run(query, func(t *testing.T) {
			w, env := do(t, productRouter(&stubProducts{}), http.MethodGet, "/api/products?"+query, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, errorFields(t, env), field)
		})
	}

	t.Run("service validation error", func(t *testing.T) {
		svc := &stubProducts{err: application.NewValidationError("page", "must be at least 1")}
		w, env := do(t, productRouter(svc), http.MethodGet, "/api/products?page=-1", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]string{"page": "must be at least 1"}, errorFields(t, env))
	})
}

func TestProductWrites(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		svc := &stubProducts{}
		w, env := do(t, productRouter(svc), http.MethodPost, "/api/products",
			`{"name":"Phone","description":"A phone","url":"https://shop.test/p","offers":[3,4]}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/products/42", w.Header().Get("Location"))
		assert.Equal(t, []int64{3, 4}, svc.input.OfferIDs)
		assert.Contains(t, string(env.Data), `"id":42`)
	})

	t.Run("product url is free text", func(t *testing.T) {
		svc := &stubProducts{}
		w, _ := do(t, productRouter(svc), http.MethodPost, "/api/products",
			`{"name":"Phone","description":"A phone","url":"phone-x1"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "phone-x1", svc.input.URL)
	})

	t.Run("create rejects missing fields and bad offer ids", func(t *testing.T) {
		w, env := do(t, productRouter(&stubProducts{}), http.MethodPost, "/api/products", `{"description":"x","offers":[0]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		fields := errorFields(t, env)
		assert.Equal(t, "is required", fields["name"])
		assert.Contains(t, fields, "offers[0]")
	})

	t.Run("unknown offer reported on offers", func(t *testing.T) {
		svc := &stubProducts{err: application.NewValidationError("offers", "references an unknown offer")}
		w, env := do(t, productRouter(svc), http.MethodPost, "/api/products", `{"name":"n","description":"d","offers":[99]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]string{"offers": "references an unknown offer"}, errorFields(t, env))
	})

	t.Run("replace without offers keeps the set", func(t *testing.T) {
		svc := &stubProducts{}
		w, _ := do(t, productRouter(svc), http.MethodPut, "/api/products/5", `{"name":"n","description":"d"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, svc.input.OfferIDs)
	})

	t.Run("replace with empty offers clears the set", func(t *testing.T) {
		svc := &stubProducts{}
		w, _ := do(t, productRouter(svc), http.MethodPut, "/api/products/5", `{"name":"n","description":"d","offers":[]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, svc.input.OfferIDs)
		assert.Empty(t, svc.input.OfferIDs)
	})

	t.Run("patch sends only present fields", func(t *testing.T) {
		svc := &stubProducts{}
		w, _ := do(t, productRouter(svc), http.MethodPatch, "/api/products/5", `{"description":"new"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.patch.Description)
		assert.Equal(t, "new", *svc.patch.Description)
		assert.Nil(t, svc.patch.Name)
		assert.Nil(t, svc.patch.OfferIDs)
	})

	t.Run("missing product", func(t *testing.T) {
		svc := &stubProducts{err: fmt.Errorf("product 9: %w", application.ErrNotFound)}
		w, env := do(t, productRouter(svc), http.MethodGet, "/api/products/9", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "product 9: not found", env.Message)
	})

	t.Run("non numeric id", func(t *testing.T) {
		w, _ := do(t, productRouter(&stubProducts{}), http.MethodGet, "/api/products/abc", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w, _ := do(t, productRouter(&stubProducts{}), http.MethodDelete, "/api/products/5", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestProductOffers(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		w, env := do(t, productRouter(&stubProducts{}), http.MethodPut, "/api/products/5/offers/3", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), `"product":5`)
	})

	t.Run("remove", func(t *testing.T) {
		w, env := do(t, productRouter(&stubProducts{}), http.MethodDelete, "/api/products/5/offers/3", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), `"product":null`)
	})

	t.Run("remove an offer the product does not own", func(t *testing.T) {
		svc := &stubProducts{err: fmt.Errorf("offer 3 of product 5: %w", application.ErrNotFound)}
		w, _ := do(t, productRouter(svc), http.MethodDelete, "/api/products/5/offers/3", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductImageUpload(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")

	t.Run("multipart upload", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("imageFile", "phone.png")
		require.NoError(t, err)
		_, _ = fw.Write(png)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/products/1/image", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		svc := &stubProducts{}
		w, env := record(t, productRouter(svc), req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, png, svc.uploaded)
		assert.Equal(t, "phone.png", svc.filename)
		assert.Contains(t, string(env.Data), "storage.googleapis.com")
	})

	t.Run("missing file", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("other", "x"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/products/1/image", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		w, env := record(t, productRouter(&stubProducts{}), req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]string{"imageFile": "is required"}, errorFields(t, env))
	})

	t.Run("store not configured", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, _ := mw.CreateFormFile("imageFile", "phone.png")
		_, _ = fw.Write(png)
		_ = mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/products/1/image", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		svc := &stubProducts{err: fmt.Errorf("image storage not configured: %w", application.ErrUnavailable)}
		w, _ := record(t, productRouter(svc), req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestProductSearch(t *testing.T) {
	w, env := do(t, productRouter(&stubProducts{}), http.MethodGet, "/api/products/search?q=phone", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"id":7`)

	w, _ = do(t, productRouter(&stubProducts{}), http.MethodGet, "/api/products/search?q=phone&limit=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubOffers struct {
	OfferService

	query application.OfferQuery
	input application.OfferInput
	patch application.OfferPatch
	err   error
}

func (s *stubOffers) List(_ context.Context, q application.OfferQuery) (*application.Page[*entity.Offer], error) {
	s.query = q
	return &application.Page[*entity.Offer]{Items: []*entity.Offer{}, Total: 0, Page: 1, ItemsPerPage: 30}, s.err
}

func (s *stubOffers) Create(_ context.Context, in application.OfferInput) (*entity.Offer, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Offer{ID: 8, URL: in.URL, Price: in.Price, PriceCurrency: in.PriceCurrency, ProductID: in.ProductID}, nil
}

func (s *stubOffers) Patch(_ context.Context, id int64, in application.OfferPatch) (*entity.Offer, error) {
	s.patch = in
	return &entity.Offer{ID: id, URL: "https://shop.test/o", Price: "1", PriceCurrency: "EUR", ProductID: in.ProductID}, s.err
}

func (s *stubOffers) Delete(context.Context, int64) error { return s.err }

func offerRouter(svc OfferService) *gin.Engine {
	h := NewOfferHandler(svc, helpers.NewDiscardLogger())
	r := gin.New()
	r.GET("/api/offers", h.List)
	r.POST("/api/offers", h.Create)
	r.PATCH("/api/offers/:id", h.Patch)
	r.DELETE("/api/offers/:id", h.Delete)
	return r
}

func TestOfferHandlers(t *testing.T) {
	t.Run("list by product", func(t *testing.T) {
		svc := &stubOffers{}
		w, env := do(t, offerRouter(svc), http.MethodGet, "/api/offers?product=4", "")

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.query.ProductID)
		assert.Equal(t, int64(4), *svc.query.ProductID)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	t.Run("create", func(t *testing.T) {
		svc := &stubOffers{}
		w, env := do(t, offerRouter(svc), http.MethodPost, "/api/offers",
			`{"url":"https://shop.test/o/1","price":"19.99","priceCurrency":"USD","product":null}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Nil(t, svc.input.ProductID)
		assert.JSONEq(t, `{"id":8,"url":"https://shop.test/o/1","price":"19.99","priceCurrency":"USD","product":null}`, string(env.Data))
	})

	t.Run("create validates url, price and currency", func(t *testing.T) {
		w, env := do(t, offerRouter(&stubOffers{}), http.MethodPost, "/api/offers", `{"url":"not a url","price":"abc"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]string{
			"url":           "must be a valid URL",
			"price":         "must be a decimal number",
			"priceCurrency": "is required",
		}, errorFields(t, env))
	})

	t.Run("create with unknown product", func(t *testing.T) {
		svc := &stubOffers{err: application.NewValidationError("product", "references an unknown product")}
		w, _ := do(t, offerRouter(svc), http.MethodPost, "/api/offers",
			`{"url":"https://shop.test/o/1","price":"1","priceCurrency":"USD","product":77}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("patch null product detaches", func(t *testing.T) {
		svc := &stubOffers{}
		w, _ := do(t, offerRouter(svc), http.MethodPatch, "/api/offers/3", `{"product":null}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, svc.patch.ProductSet)
		assert.Nil(t, svc.patch.ProductID)
	})

	t.Run("patch without product leaves it", func(t *testing.T) {
		svc := &stubOffers{}
		w, _ := do(t, offerRouter(svc), http.MethodPatch, "/api/offers/3", `{"price":"2.50"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, svc.patch.ProductSet)
		require.NotNil(t, svc.patch.Price)
		assert.Equal(t, "2.50", *svc.patch.Price)
	})

	t.Run("patch moves to another product", func(t *testing.T) {
		svc := &stubOffers{}
		w, _ := do(t, offerRouter(svc), http.MethodPatch, "/api/offers/3", `{"product":6}`)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.patch.ProductID)
		assert.Equal(t, int64(6), *svc.patch.ProductID)
	})

	t.Run("patch rejects a non-id product", func(t *testing.T) {
		w, env := do(t, offerRouter(&stubOffers{}), http.MethodPatch, "/api/offers/3", `{"product":"x"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorFields(t, env), "product")
	})

	t.Run("delete missing", func(t *testing.T) {
		svc := &stubOffers{err: fmt.Errorf("delete offer 3: %w", application.ErrNotFound)}
		w, _ := do(t, offerRouter(svc), http.MethodDelete, "/api/offers/3", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	r := gin.New()
	r.GET("/up", NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": ok}).Health)
	r.GET("/down", NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": down}).Health)

	w, env := do(t, r, http.MethodGet, "/up", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"postgres":"ok","redis":"ok"}`, string(env.Data))

	w, env = do(t, r, http.MethodGet, "/down", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, map[string]string{"postgres": "ok", "redis": "connection refused"}, errorFields(t, env))
}
