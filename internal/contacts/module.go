// Package contacts provides the contacts and companies bounded context module.
package contacts

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"outreach_backend/internal/contacts/handler"
	"outreach_backend/internal/contacts/repository"
	"outreach_backend/internal/contacts/service"
	apphttp "outreach_backend/internal/http"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"
)

// Module is the contacts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repo
}

// NewModule creates and initializes the contacts module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contacts"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts contact and company routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	contacts := ctx.V1.Group("/contacts")
	contacts.POST("", m.handler.CreateContact)
	contacts.GET("", m.handler.ListContacts)
	contacts.GET("/:id", m.handler.GetContact)
	contacts.PUT("/:id", m.handler.UpdateContact)
	contacts.DELETE("/:id", m.handler.DeleteContact)
	contacts.POST("/:id/notes", m.handler.AddNote)
	contacts.GET("/:id/activities", m.handler.ListActivities)

	companies := ctx.V1.Group("/companies")
	companies.POST("", m.handler.CreateCompany)
	companies.GET("", m.handler.ListCompanies)
	companies.GET("/:id", m.handler.GetCompany)
	companies.DELETE("/:id", m.handler.DeleteCompany)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
