package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"outreach_backend/internal/contacts/repository"
	"outreach_backend/internal/contacts/service"
	"outreach_backend/internal/contacts/transport"
	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/validator"
)

// Handler handles HTTP requests for contacts and companies.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid contact id"
	msgInvalidCompanyID = "invalid company id"
)

// New creates a new contacts handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateContact creates a contact.
// POST /api/v1/contacts
func (h *Handler) CreateContact(c *gin.Context) {
	var req transport.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	contact, err := h.svc.CreateContact(c.Request.Context(), repository.CreateContactParams{
		CompanyID:   req.CompanyID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Title:       req.Title,
		LinkedInURL: req.LinkedInURL,
		Phone:       req.Phone,
		Notes:       req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToContactResponse(contact))
}

// GetContact retrieves a contact by ID.
// GET /api/v1/contacts/:id
func (h *Handler) GetContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	contact, err := h.svc.GetContact(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToContactResponse(contact))
}

// ListContacts lists contacts, optionally filtered by company.
// GET /api/v1/contacts
func (h *Handler) ListContacts(c *gin.Context) {
	var req transport.ListContactsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var companyID *uuid.UUID
	if req.CompanyID != "" {
		parsed, err := uuid.Parse(req.CompanyID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid companyId", nil)
			return
		}
		companyID = &parsed
	}

	contacts, err := h.svc.ListContacts(c.Request.Context(), companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		items = append(items, transport.ToContactResponse(contact))
	}
	httpkit.OK(c, transport.ContactListResponse{Items: items, Total: len(items)})
}

// UpdateContact updates a contact.
// PUT /api/v1/contacts/:id
func (h *Handler) UpdateContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	contact, err := h.svc.UpdateContact(c.Request.Context(), repository.UpdateContactParams{
		ID:          id,
		CompanyID:   req.CompanyID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Title:       req.Title,
		LinkedInURL: req.LinkedInURL,
		Phone:       req.Phone,
		Notes:       req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToContactResponse(contact))
}

// DeleteContact deletes a contact.
// DELETE /api/v1/contacts/:id
func (h *Handler) DeleteContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.DeleteContact(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// AddNote records a note on the contact's timeline.
// POST /api/v1/contacts/:id/notes
func (h *Handler) AddNote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.AddNote(c.Request.Context(), id, req.Note); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListActivities returns the contact's timeline.
// GET /api/v1/contacts/:id/activities
func (h *Handler) ListActivities(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	activities, err := h.svc.ListActivities(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		items = append(items, transport.ToActivityResponse(a))
	}
	httpkit.OK(c, transport.ActivityListResponse{Items: items, Total: len(items)})
}

// CreateCompany creates a company.
// POST /api/v1/companies
func (h *Handler) CreateCompany(c *gin.Context) {
	var req transport.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	company, err := h.svc.CreateCompany(c.Request.Context(), repository.CreateCompanyParams{
		Name:   req.Name,
		Domain: req.Domain,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToCompanyResponse(company))
}

// GetCompany retrieves a company by ID.
// GET /api/v1/companies/:id
func (h *Handler) GetCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCompanyID, nil)
		return
	}

	company, err := h.svc.GetCompany(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCompanyResponse(company))
}

// ListCompanies lists all companies.
// GET /api/v1/companies
func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.svc.ListCompanies(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.CompanyResponse, 0, len(companies))
	for _, company := range companies {
		items = append(items, transport.ToCompanyResponse(company))
	}
	httpkit.OK(c, transport.CompanyListResponse{Items: items, Total: len(items)})
}

// DeleteCompany deletes a company.
// DELETE /api/v1/companies/:id
func (h *Handler) DeleteCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCompanyID, nil)
		return
	}

	if err := h.svc.DeleteCompany(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
