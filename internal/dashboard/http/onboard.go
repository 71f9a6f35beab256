package http

import (
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/dashboard/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// OnboardHandler lets a prospective client register with an owner through
// the owner's onboarding link. It is public.
type OnboardHandler struct {
	ClientService *service.ClientService
}

// ServeHTTP handles POST /onboard/{owner}
//
//	@Summary		Self-onboard as a client
//	@Description	Public endpoint behind an owner's onboarding link. The client is created pending the owner's approval.
//	@Description	Accepts JSON or a URL-encoded form.
//	@Tags			Onboarding
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			owner	path		string					true	"Owner ID from the onboarding link"
//	@Param			request	body		ledgersdk.ClientRequest	true	"Contact details"
//	@Success		201		{object}	ledgersdk.OnboardResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse	"duplicate_client"
//	@Failure		429		{object}	httpx.ErrorResponse
//	@Router			/onboard/{owner} [post]
func (h *OnboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	ctx := slogx.WithOwner(r.Context(), owner)

	var req ledgersdk.ClientRequest
	if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			ledgersdk.ErrInvalidRequest.WithDescription("invalid form body").WriteError(w)
			return
		}
		req = ledgersdk.ClientRequest{
			Name:  r.PostForm.Get("name"),
			Email: r.PostForm.Get("email"),
			Phone: r.PostForm.Get("phone"),
		}
	} else if err := httpx.DecodeJSON(r, &req); err != nil {
		ledgersdk.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	c, err := h.ClientService.Onboard(ctx, owner, clientDraft(req))
	if err != nil {
		writeServiceError(w, r.WithContext(ctx), err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, ledgersdk.OnboardResponse{
		ID:     c.ID,
		Status: string(c.Onboarding.Status),
	})
}
