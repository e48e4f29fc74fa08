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

type BarService interface {
	ListBars(ctx context.Context) ([]domain.Bar, error)
	ListFeaturedBars(ctx context.Context) ([]domain.Bar, error)
	GetBar(ctx context.Context, id string) (domain.Bar, error)
	CreateBar(ctx context.Context, bar domain.Bar) (domain.Bar, error)
	UpdateBar(ctx context.Context, id string, update domain.BarUpdate) (domain.Bar, error)
	DeleteBar(ctx context.Context, id string) error
	ToggleFeatured(ctx context.Context, id string) (domain.Bar, error)
}

type BarHandler struct {
	svc BarService
}

func NewBarHandler(svc BarService) *BarHandler {
	return &BarHandler{
		svc: svc,
	}
}

// HandleListBars godoc
// @Summary      List all bars
// @Tags         bars
// @Produce      json
// @Success      200      {object}   []domain.Bar
// @Failure      500      {object}   response.Err
// @Router       /bars [get]
func (h *BarHandler) HandleListBars(ctx *gin.Context) {
	bars, err := h.svc.ListBars(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListBars -> h.svc.ListBars -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, bars)
}

// HandleListFeaturedBars godoc
// @Summary      List featured bars
// @Tags         bars
// @Produce      json
// @Success      200      {object}   []domain.Bar
// @Failure      500      {object}   response.Err
// @Router       /bars/featured [get]
func (h *BarHandler) HandleListFeaturedBars(ctx *gin.Context) {
	bars, err := h.svc.ListFeaturedBars(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListFeaturedBars -> h.svc.ListFeaturedBars -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, bars)
}

// HandleGetBar godoc
// @Summary      Get one bar
// @Tags         bars
// @Produce      json
// @Param        barID   path   string  true  "bar ID"
// @Success      200      {object}   domain.Bar
// @Failure      404      {object}   response.Err
// @Router       /bars/{barID} [get]
func (h *BarHandler) HandleGetBar(ctx *gin.Context) {
	bar, err := h.svc.GetBar(ctx.Request.Context(), ctx.Param("barID"))
	if err != nil {
		if errors.Is(err, service.ErrBarNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrBarNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetBar -> h.svc.GetBar -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, bar)
}

// HandleCreateBar godoc
// @Summary      Create a bar
// @Tags         bars
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.CreateBarRequest true "request body"
// @Success      201      {object}   domain.Bar
// @Failure      400      {object}   response.Err
// @Router       /bars [post]
func (h *BarHandler) HandleCreateBar(ctx *gin.Context) {
	var req request.CreateBarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	bar, err := h.svc.CreateBar(ctx.Request.Context(), domain.Bar{
		Name:       req.Name,
		NameEn:     req.NameEn,
		DistrictID: req.DistrictID,
		Address:    req.Address,
		Image:      req.Image,
		Rating:     req.Rating,
		Drinks:     req.Drinks,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateBar -> h.svc.CreateBar -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, bar)
}

// HandleUpdateBar godoc
// @Summary      Update a bar
// @Tags         bars
// @Produce      json
// @Security     BearerAuth
// @Param        barID   path   string  true  "bar ID"
// @Param        request   body      request.UpdateBarRequest true "request body"
// @Success      200      {object}   domain.Bar
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /bars/{barID} [put]
func (h *BarHandler) HandleUpdateBar(ctx *gin.Context) {
	var req request.UpdateBarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	bar, err := h.svc.UpdateBar(ctx.Request.Context(), ctx.Param("barID"), domain.BarUpdate{
		Name:       req.Name,
		NameEn:     req.NameEn,
		DistrictID: req.DistrictID,
		Address:    req.Address,
		Image:      req.Image,
		Rating:     req.Rating,
		Drinks:     req.Drinks,
	})
	if err != nil {
		if errors.Is(err, service.ErrBarNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrBarNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateBar -> h.svc.UpdateBar -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, bar)
}

// HandleDeleteBar godoc
// @Summary      Delete a bar
// @Tags         bars
// @Produce      json
// @Security     BearerAuth
// @Param        barID   path   string  true  "bar ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      404      {object}   response.Err
// @Router       /bars/{barID} [delete]
func (h *BarHandler) HandleDeleteBar(ctx *gin.Context) {
	if err := h.svc.DeleteBar(ctx.Request.Context(), ctx.Param("barID")); err != nil {
		if errors.Is(err, service.ErrBarNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrBarNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteBar -> h.svc.DeleteBar -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "Bar deleted"})
}

// HandleToggleFeatured godoc
// @Summary      Toggle a bar's featured flag
// @Tags         bars
// @Produce      json
// @Security     BearerAuth
// @Param        barID   path   string  true  "bar ID"
// @Success      200      {object}   domain.Bar
// @Failure      404      {object}   response.Err
// @Router       /bars/{barID}/toggle-featured [post]
func (h *BarHandler) HandleToggleFeatured(ctx *gin.Context) {
	bar, err := h.svc.ToggleFeatured(ctx.Request.Context(), ctx.Param("barID"))
	if err != nil {
		if errors.Is(err, service.ErrBarNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrBarNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleToggleFeatured -> h.svc.ToggleFeatured -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, bar)
}
