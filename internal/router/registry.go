package router

import "github.com/gin-gonic/gin"

// Registry collects modules and the middleware shared by all of them.
// Groups are created in RegisterAll so they inherit every Use call.
type Registry struct {
	Engine      *gin.Engine
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) RegisterAll() {
	root := r.Engine.Group("/", r.middlewares...)
	api := root.Group("/api")
	for _, m := range r.modules {
		m.Register(root, api)
	}
}
