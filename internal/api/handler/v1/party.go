package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onenightdrink/api/internal/api/handler/v1/request"
	"github.com/onenightdrink/api/internal/api/handler/v1/response"
	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/service"
)

var errPartyNotFoundOrUnauthorized = errors.New("Party not found or unauthorized")

type PartyService interface {
	ListParties(ctx context.Context, status domain.PartyStatus) ([]domain.Party, error)
	ListHostedParties(ctx context.Context, hostID string) ([]domain.Party, error)
	ListJoinedParties(ctx context.Context, userID string) ([]domain.Party, error)
	CreateParty(ctx context.Context, input service.CreatePartyInput) (domain.Party, error)
	JoinParty(ctx context.Context, partyID, userID string) (domain.Party, error)
	LeaveParty(ctx context.Context, partyID, userID string) error
	CancelParty(ctx context.Context, partyID, hostID string) error
}

type PartyHandler struct {
	svc PartyService
}

func NewPartyHandler(svc PartyService) *PartyHandler {
	return &PartyHandler{
		svc: svc,
	}
}

// HandleListParties godoc
// @Summary      List parties by status
// @Tags         parties
// @Produce      json
// @Param        status   query   string  false  "party status (default open)"
// @Success      200      {object}   []domain.Party
// @Failure      500      {object}   response.Err
// @Router       /parties [get]
func (h *PartyHandler) HandleListParties(ctx *gin.Context) {
	status := domain.PartyStatus(ctx.DefaultQuery("status", string(domain.PartyOpen)))

	parties, err := h.svc.ListParties(ctx.Request.Context(), status)
	if err != nil {
		err = fmt.Errorf("v1.HandleListParties -> h.svc.ListParties -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, parties)
}

// HandleListHostedParties godoc
// @Summary      List parties hosted by the authenticated user
// @Tags         parties
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   []domain.Party
// @Failure      401      {object}   response.Err
// @Router       /parties/my-hosted [get]
func (h *PartyHandler) HandleListHostedParties(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	parties, err := h.svc.ListHostedParties(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListHostedParties -> h.svc.ListHostedParties -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, parties)
}

// HandleListJoinedParties godoc
// @Summary      List parties the authenticated user has joined
// @Tags         parties
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   []domain.Party
// @Failure      401      {object}   response.Err
// @Router       /parties/my-joined [get]
func (h *PartyHandler) HandleListJoinedParties(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	parties, err := h.svc.ListJoinedParties(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListJoinedParties -> h.svc.ListJoinedParties -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, parties)
}

// HandleCreateParty godoc
// @Summary      Create a party backed by an active pass
// @Tags         parties
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.CreatePartyRequest true "request body"
// @Success      201      {object}   domain.Party
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Router       /parties [post]
func (h *PartyHandler) HandleCreateParty(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	var req request.CreatePartyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	party, err := h.svc.CreateParty(ctx.Request.Context(), service.CreatePartyInput{
		HostID:          userID,
		PassID:          req.PassID,
		Title:           req.Title,
		Description:     req.Description,
		MaxFemaleGuests: req.MaxFemaleGuests,
		PartyTime:       req.PartyTime,
	})
	if err != nil {
		if errors.Is(err, service.ErrPassNotValid) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrPassNotValid))

			return
		}

		err = fmt.Errorf("v1.HandleCreateParty -> h.svc.CreateParty -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, party)
}

// HandleJoinParty godoc
// @Summary      Join an open party
// @Tags         parties
// @Produce      json
// @Security     BearerAuth
// @Param        partyID   path   string  true  "party ID"
// @Success      200      {object}   domain.Party
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /parties/{partyID}/join [post]
func (h *PartyHandler) HandleJoinParty(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	party, err := h.svc.JoinParty(ctx.Request.Context(), ctx.Param("partyID"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPartyNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrPartyNotFound))
		case errors.Is(err, service.ErrPartyNotOpen):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrPartyNotOpen))
		case errors.Is(err, service.ErrPartyFull):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrPartyFull))
		default:
			err = fmt.Errorf("v1.HandleJoinParty -> h.svc.JoinParty -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, party)
}

// HandleLeaveParty godoc
// @Summary      Leave a party
// @Tags         parties
// @Produce      json
// @Security     BearerAuth
// @Param        partyID   path   string  true  "party ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      401      {object}   response.Err
// @Router       /parties/{partyID}/leave [delete]
func (h *PartyHandler) HandleLeaveParty(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	if err := h.svc.LeaveParty(ctx.Request.Context(), ctx.Param("partyID"), userID); err != nil {
		err = fmt.Errorf("v1.HandleLeaveParty -> h.svc.LeaveParty -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "Left party"})
}

// HandleCancelParty godoc
// @Summary      Cancel a hosted party
// @Tags         parties
// @Produce      json
// @Security     BearerAuth
// @Param        partyID   path   string  true  "party ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      404      {object}   response.Err
// @Router       /parties/{partyID} [delete]
func (h *PartyHandler) HandleCancelParty(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	if err := h.svc.CancelParty(ctx.Request.Context(), ctx.Param("partyID"), userID); err != nil {
		if errors.Is(err, service.ErrPartyNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(errPartyNotFoundOrUnauthorized))

			return
		}

		err = fmt.Errorf("v1.HandleCancelParty -> h.svc.CancelParty -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "Party cancelled"})
}
