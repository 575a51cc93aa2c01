package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/pkg/response"
)

type ProductService interface {
	List(ctx context.Context, q application.ProductQuery) (*application.Page[*entity.Product], error)
	Get(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, in application.ProductInput) (*entity.Product, error)
	Replace(ctx context.Context, id int64, in application.ProductInput) (*entity.Product, error)
	Patch(ctx context.Context, id int64, in application.ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error
	ListOffers(ctx context.Context, id int64) ([]*entity.Offer, error)
	AddOffer(ctx context.Context, productID, offerID int64) (*entity.Offer, error)
	RemoveOffer(ctx context.Context, productID, offerID int64) (*entity.Offer, error)
	UploadImage(ctx context.Context, id int64, r io.Reader, filename string, size int64) (*entity.Product, error)
	Search(ctx context.Context, q string, limit int) ([]*entity.Product, error)
}

type ProductHandler struct {
	Svc    ProductService
	Logger *logrus.Logger
}

func NewProductHandler(svc ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

func (h *ProductHandler) List(c *gin.Context) {
	q, err := parseProductQuery(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	page, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProductReads(page.Items), "products",
		response.PageMeta{Total: page.Total, Page: page.Page, ItemsPerPage: page.ItemsPerPage})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProductRead(p), "product", nil)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductWrite
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/products/%d", p.ID))
	response.Success(c, http.StatusCreated, toProductRead(p), "product created", nil)
}

func (h *ProductHandler) Replace(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	var req ProductWrite
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Svc.Replace(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProductRead(p), "product updated", nil)
}

func (h *ProductHandler) Patch(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	var req ProductPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Svc.Patch(c.Request.Context(), id, req.patch())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProductRead(p), "product updated", nil)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

func (h *ProductHandler) Offers(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	offers, err := h.Svc.ListOffers(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toOfferReads(offers), "offers", nil)
}

func (h *ProductHandler) AddOffer(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	offerID, ok := pathID(c, "offerId")
	if !ok {
		response.Error[any](c, http.StatusNotFound, "offer not found", nil)
		return
	}
	o, err := h.Svc.AddOffer(c.Request.Context(), id, offerID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toOfferRead(o), "offer attached", nil)
}

func (h *ProductHandler) RemoveOffer(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	offerID, ok := pathID(c, "offerId")
	if !ok {
		response.Error[any](c, http.StatusNotFound, "offer not found", nil)
		return
	}
	o, err := h.Svc.RemoveOffer(c.Request.Context(), id, offerID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toOfferRead(o), "offer detached", nil)
}

// UploadImage accepts a multipart form with the file under imageFile.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("imageFile")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"imageFile": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, fmt.Errorf("open upload: %w: %w", application.ErrPersistence, err))
		return
	}
	defer func() { _ = f.Close() }()

	p, err := h.Svc.UploadImage(c.Request.Context(), id, f, fh.Filename, fh.Size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProductRead(p), "image uploaded", nil)
}

func (h *ProductHandler) Search(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(c, h.Logger, application.NewValidationError("limit", "must be an integer"))
			return
		}
		limit = n
	}
	products, err := h.Svc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProductReads(products), "search results", nil)
}

func (h *ProductHandler) productID(c *gin.Context) (int64, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error[any](c, http.StatusNotFound, "product not found", nil)
	}
	return id, ok
}
