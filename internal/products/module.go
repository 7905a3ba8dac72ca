// Package products provides the product template bounded context module.
package products

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "outreach_backend/internal/http"
	"outreach_backend/internal/products/handler"
	"outreach_backend/internal/products/repository"
	"outreach_backend/platform/validator"
)

// Module is the products bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repo
}

// NewModule creates and initializes the products module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	h := handler.New(repo, val)

	return &Module{
		handler: h,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "products"
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() *repository.Repo {
	return m.repo
}

// RegisterRoutes mounts product routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	products := ctx.V1.Group("/products")
	products.GET("", m.handler.ListProducts)
	products.GET("/:id", m.handler.GetProduct)
	products.POST("", m.handler.CreateProduct)
	products.PUT("/:id", m.handler.UpdateProduct)
	products.DELETE("/:id", m.handler.DeleteProduct)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
