// Package campaigns provides the campaign pipeline bounded context module.
package campaigns

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"outreach_backend/internal/campaigns/handler"
	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/campaigns/service"
	apphttp "outreach_backend/internal/http"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repo
}

// NewModule creates and initializes the campaigns module.
func NewModule(pool *pgxpool.Pool, queue service.Enqueuer, regenerator service.DraftRegenerator, sendInterval time.Duration, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, queue, regenerator, sendInterval, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaigns"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() *repository.Repo {
	return m.repo
}

// RegisterRoutes mounts campaign and review routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	campaigns := ctx.V1.Group("/campaigns")
	campaigns.POST("", m.handler.CreateCampaign)
	campaigns.GET("", m.handler.ListCampaigns)
	campaigns.GET("/:id", m.handler.GetCampaign)
	campaigns.PUT("/:id", m.handler.UpdateCampaign)
	campaigns.DELETE("/:id", m.handler.DeleteCampaign)
	campaigns.POST("/:id/contacts", m.handler.AddContacts)
	campaigns.GET("/:id/progress", m.handler.GetProgress)
	campaigns.POST("/:id/enrich", m.handler.QueueEnrichment)
	campaigns.POST("/:id/draft", m.handler.QueueDrafting)
	campaigns.POST("/:id/send", m.handler.QueueSending)

	review := ctx.V1.Group("/review")
	review.GET("", m.handler.ListReviewQueue)
	review.POST("/:id/approve", m.handler.ApproveDraft)
	review.POST("/:id/reject", m.handler.RejectDraft)
	review.PUT("/:id/draft", m.handler.UpdateDraft)
	review.POST("/:id/regenerate", m.handler.RegenerateDraft)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
