// Package gmailmodule wires the gmail bounded context together.
package gmailmodule

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"outreach_backend/internal/gmail"
	"outreach_backend/internal/gmail/handler"
	"outreach_backend/internal/gmail/repository"
	"outreach_backend/internal/gmail/service"
	apphttp "outreach_backend/internal/http"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"
)

// Module is the gmail bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repo
}

// NewModule creates and initializes the gmail module.
func NewModule(pool *pgxpool.Pool, cfg config.GmailConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, gmail.NewOAuth(cfg), log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "gmail"
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() *repository.Repo {
	return m.repo
}

// RegisterRoutes mounts gmail routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/gmail")
	group.GET("/connect", m.handler.Connect)
	group.GET("/callback", m.handler.Callback)
	group.GET("/accounts", m.handler.ListAccounts)
	group.PUT("/accounts/:id/label", m.handler.UpdateLabel)
	group.DELETE("/accounts/:id", m.handler.DeleteAccount)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
