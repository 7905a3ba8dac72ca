package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outreach_backend/internal/products/repository"
	"outreach_backend/internal/products/transport"
	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/validator"
)

// Handler handles HTTP requests for products.
type Handler struct {
	repo *repository.Repo
	val  *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new products handler.
func New(repo *repository.Repo, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

// ListProducts lists all products.
// GET /api/v1/products
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.repo.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, transport.ToProductResponse(p))
	}
	httpkit.OK(c, transport.ProductListResponse{Items: items, Total: len(items)})
}

// GetProduct retrieves a product by ID.
// GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProductResponse(product))
}

// CreateProduct creates a product.
// POST /api/v1/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req transport.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	product, err := h.repo.Create(c.Request.Context(), repository.SaveParams{
		ID:                      req.ID,
		Name:                    req.Name,
		Description:             req.Description,
		ValueProps:              req.ValueProps,
		TargetAudience:          req.TargetAudience,
		EnrichmentQueryTemplate: req.EnrichmentQueryTemplate,
		EmailSystemPrompt:       req.EmailSystemPrompt,
		PainPoints:              req.PainPoints,
		AntiPatterns:            req.AntiPatterns,
		FewShotExamples:         transport.ToFewShots(req.FewShotExamples),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToProductResponse(product))
}

// UpdateProduct updates a product.
// PUT /api/v1/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req transport.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	product, err := h.repo.Update(c.Request.Context(), repository.SaveParams{
		ID:                      c.Param("id"),
		Name:                    req.Name,
		Description:             req.Description,
		ValueProps:              req.ValueProps,
		TargetAudience:          req.TargetAudience,
		EnrichmentQueryTemplate: req.EnrichmentQueryTemplate,
		EmailSystemPrompt:       req.EmailSystemPrompt,
		PainPoints:              req.PainPoints,
		AntiPatterns:            req.AntiPatterns,
		FewShotExamples:         transport.ToFewShots(req.FewShotExamples),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProductResponse(product))
}

// DeleteProduct deletes a product. Default products and products referenced
// by a campaign are refused.
// DELETE /api/v1/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
