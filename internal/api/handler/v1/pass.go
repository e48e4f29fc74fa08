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

type PassService interface {
	Purchase(ctx context.Context, input service.PurchaseInput) (domain.Pass, error)
	ListPasses(ctx context.Context, userID string) ([]domain.Pass, error)
	ListActivePasses(ctx context.Context, userID string) ([]domain.Pass, error)
}

type PassHandler struct {
	svc PassService
}

func NewPassHandler(svc PassService) *PassHandler {
	return &PassHandler{
		svc: svc,
	}
}

// HandleListPasses godoc
// @Summary      List the authenticated user's passes
// @Tags         passes
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   []domain.Pass
// @Failure      401      {object}   response.Err
// @Router       /passes [get]
func (h *PassHandler) HandleListPasses(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	passes, err := h.svc.ListPasses(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListPasses -> h.svc.ListPasses -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, passes)
}

// HandleListActivePasses godoc
// @Summary      List the authenticated user's active passes
// @Tags         passes
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   []domain.Pass
// @Failure      401      {object}   response.Err
// @Router       /passes/active [get]
func (h *PassHandler) HandleListActivePasses(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	passes, err := h.svc.ListActivePasses(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListActivePasses -> h.svc.ListActivePasses -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, passes)
}

// HandlePurchasePass godoc
// @Summary      Purchase a drink pass
// @Tags         passes
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.PurchasePassRequest true "request body"
// @Success      201      {object}   domain.Pass
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Router       /passes [post]
func (h *PassHandler) HandlePurchasePass(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	var req request.PurchasePassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	pass, err := h.svc.Purchase(ctx.Request.Context(), service.PurchaseInput{
		UserID:        userID,
		BarID:         req.BarID,
		PersonCount:   req.PersonCount,
		TotalPrice:    req.TotalPrice,
		TransactionID: req.TransactionID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, service.ErrBarNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrBarNotFound))

			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))

			return
		}

		err = fmt.Errorf("v1.HandlePurchasePass -> h.svc.Purchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, pass)
}
