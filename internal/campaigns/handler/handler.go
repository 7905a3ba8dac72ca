package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/campaigns/service"
	"outreach_backend/internal/campaigns/transport"
	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/validator"
)

// Handler handles HTTP requests for campaigns and the review queue.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid campaign id"
	msgInvalidContactID = "invalid campaign contact id"
)

// New creates a new campaigns handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateCampaign creates a campaign.
// POST /api/v1/campaigns
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req transport.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	campaign, err := h.svc.Create(c.Request.Context(), repository.CreateCampaignParams{
		Name:           req.Name,
		ProductID:      req.ProductID,
		Description:    req.Description,
		TemplatePrompt: req.TemplatePrompt,
		GmailAccountID: req.GmailAccountID,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToCampaignResponse(campaign))
}

// GetCampaign retrieves a campaign by ID.
// GET /api/v1/campaigns/:id
func (h *Handler) GetCampaign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	campaign, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCampaignResponse(campaign))
}

// ListCampaigns lists all campaigns.
// GET /api/v1/campaigns
func (h *Handler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, transport.ToCampaignResponse(campaign))
	}
	httpkit.OK(c, transport.CampaignListResponse{Items: items, Total: len(items)})
}

// UpdateCampaign updates a campaign.
// PUT /api/v1/campaigns/:id
func (h *Handler) UpdateCampaign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	campaign, err := h.svc.Update(c.Request.Context(), repository.UpdateCampaignParams{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		TemplatePrompt: req.TemplatePrompt,
		GmailAccountID: req.GmailAccountID,
		Status:         req.Status,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCampaignResponse(campaign))
}

// DeleteCampaign deletes a campaign.
// DELETE /api/v1/campaigns/:id
func (h *Handler) DeleteCampaign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// AddContacts links contacts to a campaign.
// POST /api/v1/campaigns/:id/contacts
func (h *Handler) AddContacts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.AddContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	added, err := h.svc.AddContacts(c.Request.Context(), id, req.ContactIDs)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.AddContactsResponse{Added: added})
}

// GetProgress reports the campaign's stage histogram and rollups.
// GET /api/v1/campaigns/:id/progress
func (h *Handler) GetProgress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	progress, err := h.svc.GetProgress(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, progress)
}

// QueueEnrichment queues eligible contacts for research.
// POST /api/v1/campaigns/:id/enrich
func (h *Handler) QueueEnrichment(c *gin.Context) {
	h.queue(c, h.svc.QueueEnrichment)
}

// QueueDrafting queues enriched contacts for draft generation.
// POST /api/v1/campaigns/:id/draft
func (h *Handler) QueueDrafting(c *gin.Context) {
	h.queue(c, h.svc.QueueDrafting)
}

// QueueSending queues approved contacts for dispatch.
// POST /api/v1/campaigns/:id/send
func (h *Handler) QueueSending(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	queued, err := h.svc.QueueSending(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.QueueResponse{Queued: queued})
}

// queue handles the shared shape of the enrich and draft triggers. The body
// is optional; an empty body means "every eligible contact".
func (h *Handler) queue(c *gin.Context, produce func(context.Context, uuid.UUID, []uuid.UUID) (int, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.QueueRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}

	queued, err := produce(c.Request.Context(), id, req.ContactIDs)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.QueueResponse{Queued: queued})
}

// ListReviewQueue lists drafted contacts waiting for review.
// GET /api/v1/review
func (h *Handler) ListReviewQueue(c *gin.Context) {
	var campaignID *uuid.UUID
	if raw := c.Query("campaignId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid campaignId", nil)
			return
		}
		campaignID = &parsed
	}

	details, err := h.svc.ReviewQueue(c.Request.Context(), campaignID)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.ReviewItemResponse, 0, len(details))
	for _, detail := range details {
		items = append(items, transport.ToReviewItemResponse(detail))
	}
	httpkit.OK(c, transport.ReviewQueueResponse{Items: items, Total: len(items)})
}

// ApproveDraft records the reviewer's final subject and body.
// POST /api/v1/review/:id/approve
func (h *Handler) ApproveDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidContactID, nil)
		return
	}

	var req transport.ApproveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	cc, err := h.svc.Approve(c.Request.Context(), id, req.FinalSubject, req.FinalBody)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCampaignContactResponse(cc))
}

// RejectDraft skips the contact.
// POST /api/v1/review/:id/reject
func (h *Handler) RejectDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidContactID, nil)
		return
	}

	var req transport.RejectDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}

	cc, err := h.svc.Reject(c.Request.Context(), id, req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCampaignContactResponse(cc))
}

// UpdateDraft edits the draft subject or body in place.
// PUT /api/v1/review/:id/draft
func (h *Handler) UpdateDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidContactID, nil)
		return
	}

	var req transport.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if req.Subject == nil && req.Body == nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "subject or body is required")
		return
	}

	cc, err := h.svc.UpdateDraft(c.Request.Context(), id, req.Subject, req.Body)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCampaignContactResponse(cc))
}

// RegenerateDraft asks the model for a new draft, optionally guided by feedback.
// POST /api/v1/review/:id/regenerate
func (h *Handler) RegenerateDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidContactID, nil)
		return
	}

	var req transport.RegenerateDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}

	cc, err := h.svc.Regenerate(c.Request.Context(), id, req.Feedback)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCampaignContactResponse(cc))
}
