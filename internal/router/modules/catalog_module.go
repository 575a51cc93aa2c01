package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-catalog/internal/interface/http"
	"github.com/oksasatya/go-ddd-catalog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

// CatalogModule maps the product and offer resources onto /api. Reads are
// public; writes require an access token when WriteAuth is set.
type CatalogModule struct {
	Products  *handlers.ProductHandler
	Offers    *handlers.OfferHandler
	JWT       *helpers.JWTManager
	WriteAuth bool
}

func NewCatalogModule(products *handlers.ProductHandler, offers *handlers.OfferHandler, jwt *helpers.JWTManager, writeAuth bool) *CatalogModule {
	return &CatalogModule{Products: products, Offers: offers, JWT: jwt, WriteAuth: writeAuth}
}

func (m *CatalogModule) Register(_, api *gin.RouterGroup) {
	api.GET("/products", m.Products.List)
	api.GET("/products/search", m.Products.Search)
	api.GET("/products/:id", m.Products.Get)
	api.GET("/products/:id/offers", m.Products.Offers)
	api.GET("/offers", m.Offers.List)
	api.GET("/offers/:id", m.Offers.Get)

	write := api.Group("/")
	if m.WriteAuth {
		write.Use(middleware.Auth(m.JWT))
	}
	{
		write.POST("/products", m.Products.Create)
		write.PUT("/products/:id", m.Products.Replace)
		write.PATCH("/products/:id", m.Products.Patch)
		write.DELETE("/products/:id", m.Products.Delete)
		write.PUT("/products/:id/offers/:offerId", m.Products.AddOffer)
		write.DELETE("/products/:id/offers/:offerId", m.Products.RemoveOffer)
		write.POST("/products/:id/image", m.Products.UploadImage)

		write.POST("/offers", m.Offers.Create)
		write.PUT("/offers/:id", m.Offers.Replace)
		write.PATCH("/offers/:id", m.Offers.Patch)
		write.DELETE("/offers/:id", m.Offers.Delete)
	}
}
