package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"outreach_backend/internal/gmail/service"
	"outreach_backend/internal/gmail/transport"
	"outreach_backend/platform/httpkit"
	"outreach_backend/platform/validator"
)

// Handler handles HTTP requests for Gmail account management.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid account id"
)

// New creates a new gmail handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Connect returns the Google consent URL.
// GET /api/v1/gmail/connect
func (h *Handler) Connect(c *gin.Context) {
	authURL, state, err := h.svc.ConnectURL()
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ConnectResponse{AuthURL: authURL, State: state})
}

// Callback completes the OAuth flow and stores the mailbox.
// GET /api/v1/gmail/callback
func (h *Handler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		httpkit.Error(c, http.StatusBadRequest, "missing authorization code", nil)
		return
	}

	account, err := h.svc.HandleCallback(c.Request.Context(), code)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToAccountResponse(account))
}

// ListAccounts lists connected mailboxes.
// GET /api/v1/gmail/accounts
func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.svc.ListAccounts(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, transport.ToAccountResponse(account))
	}
	httpkit.OK(c, transport.AccountListResponse{Items: items, Total: len(items)})
}

// UpdateLabel renames a connected mailbox.
// PUT /api/v1/gmail/accounts/:id/label
func (h *Handler) UpdateLabel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.UpdateLabel(c.Request.Context(), id, req.Label); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAccount disconnects a mailbox.
// DELETE /api/v1/gmail/accounts/:id
func (h *Handler) DeleteAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.DeleteAccount(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
