package router

import "github.com/gin-gonic/gin"

// Module describes a feature module that registers its routes. root serves
// paths outside /api (POST /register); api is the /api group.
type Module interface {
	Register(root, api *gin.RouterGroup)
}
