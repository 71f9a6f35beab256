package http

import (
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
)

// ClientsHandler serves the owner-scoped client API.
type ClientsHandler struct {
	ClientService  *service.ClientService
	OnboardingBase string
}

// HandleList handles GET /v1/clients
//
//	@Summary		List clients
//	@Description	Returns every client of the caller in creation order.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ledgersdk.ListClientsResponse
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Router			/v1/clients [get]
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	clients, err := h.ClientService.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.ListClientsResponse{Clients: toClientResponses(clients)})
}

// HandleGet handles GET /v1/clients/{id}
//
//	@Summary	Get a client
//	@Tags		Clients
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Client ID"
//	@Success	200	{object}	ledgersdk.ClientResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/clients/{id} [get]
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	c, err := h.ClientService.Get(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toClientResponse(c))
}

// HandleCreate handles POST /v1/clients
//
//	@Summary		Add a client
//	@Description	Email is stored lower-cased. Email and phone must each be unused among the caller's clients.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ledgersdk.ClientRequest	true	"Client"
//	@Success		201		{object}	ledgersdk.ClientResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"missing_field"
//	@Failure		409		{object}	httpx.ErrorResponse	"duplicate_client"
//	@Router			/v1/clients [post]
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	var req ledgersdk.ClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		ledgersdk.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	c, err := h.ClientService.Add(r.Context(), owner, clientDraft(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toClientResponse(c))
}

// HandleUpdate handles PUT /v1/clients/{id}
//
//	@Summary		Edit a client
//	@Description	Replaces name, email and phone. The client's own email and phone never count as duplicates.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Client ID"
//	@Param			request	body		ledgersdk.ClientRequest	true	"Client"
//	@Success		200		{object}	ledgersdk.ClientResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse	"duplicate_client"
//	@Router			/v1/clients/{id} [put]
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	var req ledgersdk.ClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		ledgersdk.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	c, err := h.ClientService.Edit(r.Context(), owner, r.PathValue("id"), clientDraft(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toClientResponse(c))
}

// HandleDelete handles DELETE /v1/clients/{id}
//
//	@Summary		Delete a client
//	@Description	Requires confirm=true. Without it nothing is deleted.
//	@Tags			Clients
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Client ID"
//	@Param			confirm	query	bool	true	"Must be true"
//	@Success		204
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Failure		428	{object}	httpx.ErrorResponse	"confirmation_required"
//	@Router			/v1/clients/{id} [delete]
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	if !confirmed(r) {
		ledgersdk.ErrConfirmationRequired.WriteError(w)
		return
	}

	if err := h.ClientService.Delete(r.Context(), owner, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleApproval handles POST /v1/clients/{id}/approval
//
//	@Summary	Approve or reject a self-onboarded client
//	@Tags		Clients
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"Client ID"
//	@Param		request	body		ledgersdk.ApprovalRequest	true	"pending, approved or rejected"
//	@Success	200		{object}	ledgersdk.ClientResponse
//	@Failure	409		{object}	httpx.ErrorResponse	"not_onboarded"
//	@Router		/v1/clients/{id}/approval [post]
func (h *ClientsHandler) HandleApproval(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	var req ledgersdk.ApprovalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		ledgersdk.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}
	status, err := domain.ParseApprovalStatus(req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	c, err := h.ClientService.SetApproval(r.Context(), owner, r.PathValue("id"), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toClientResponse(c))
}

// HandleOnboardingLink handles GET /v1/onboarding-link
//
//	@Summary	The caller's public onboarding link
//	@Tags		Clients
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	ledgersdk.OnboardingLinkResponse
//	@Router		/v1/onboarding-link [get]
func (h *ClientsHandler) HandleOnboardingLink(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.OnboardingLinkResponse{
		Link: service.OnboardingLink(h.OnboardingBase, owner),
	})
}

// confirmed reports whether the request carries confirm=true (or yes/1).
func confirmed(r *http.Request) bool {
	switch r.URL.Query().Get("confirm") {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}
