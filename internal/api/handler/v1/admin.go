package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onenightdrink/api/internal/api/handler/v1/request"
	"github.com/onenightdrink/api/internal/api/handler/v1/response"
	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/service"
)

type AdminService interface {
	ListMembers(ctx context.Context) ([]domain.User, error)
	UpdateMember(ctx context.Context, id string, tier *domain.MembershipTier, expiry *time.Time) (domain.User, error)
	DeleteMember(ctx context.Context, id string) error
	ListPasses(ctx context.Context) ([]domain.Pass, error)
	RevokePass(ctx context.Context, id string) error
	GetPaymentSettings(ctx context.Context) (domain.PaymentSettings, error)
	UpdatePaymentSettings(ctx context.Context, update domain.PaymentSettingsUpdate) (domain.PaymentSettings, error)
	GetAdSettings(ctx context.Context) (domain.AdSettings, error)
	SaveAdSettings(ctx context.Context, settings domain.AdSettings) (domain.AdSettings, error)
	CreateBarUser(ctx context.Context, barUser domain.BarUser) (domain.BarUser, error)
	ListBarUsers(ctx context.Context) ([]domain.BarUser, error)
}

type AdminHandler struct {
	svc AdminService
}

func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{
		svc: svc,
	}
}

// HandleListMembers godoc
// @Summary      List all members
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   []domain.User
// @Failure      403      {object}   response.Err
// @Router       /admin/members [get]
func (h *AdminHandler) HandleListMembers(ctx *gin.Context) {
	members, err := h.svc.ListMembers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListMembers -> h.svc.ListMembers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, members)
}

// HandleUpdateMember godoc
// @Summary      Update a member's membership
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        memberID  path   string  true  "member ID"
// @Param        request   body      request.UpdateMemberRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      404      {object}   response.Err
// @Router       /admin/members/{memberID} [put]
func (h *AdminHandler) HandleUpdateMember(ctx *gin.Context) {
	var req request.UpdateMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var tier *domain.MembershipTier
	if req.MembershipTier != nil {
		t := domain.MembershipTier(*req.MembershipTier)
		tier = &t
	}

	member, err := h.svc.UpdateMember(ctx.Request.Context(), ctx.Param("memberID"), tier, req.MembershipExpiry)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateMember -> h.svc.UpdateMember -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, member)
}

// HandleDeleteMember godoc
// @Summary      Delete a member
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        memberID  path   string  true  "member ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      404      {object}   response.Err
// @Router       /admin/members/{memberID} [delete]
func (h *AdminHandler) HandleDeleteMember(ctx *gin.Context) {
	if err := h.svc.DeleteMember(ctx.Request.Context(), ctx.Param("memberID")); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteMember -> h.svc.DeleteMember -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "Member deleted"})
}

// HandleListPasses godoc
// @Summary      List all passes with their owners
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   []domain.Pass
// @Failure      403      {object}   response.Err
// @Router       /admin/passes [get]
func (h *AdminHandler) HandleListPasses(ctx *gin.Context) {
	passes, err := h.svc.ListPasses(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListPasses -> h.svc.ListPasses -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, passes)
}

// HandleRevokePass godoc
// @Summary      Revoke a pass
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        passID  path   string  true  "pass ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      404      {object}   response.Err
// @Router       /admin/passes/{passID}/revoke [post]
func (h *AdminHandler) HandleRevokePass(ctx *gin.Context) {
	if err := h.svc.RevokePass(ctx.Request.Context(), ctx.Param("passID")); err != nil {
		if errors.Is(err, service.ErrPassNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrPassNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleRevokePass -> h.svc.RevokePass -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "Pass revoked"})
}

// HandleGetPaymentSettings godoc
// @Summary      Get the payment settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   domain.PaymentSettings
// @Failure      403      {object}   response.Err
// @Router       /admin/payment-settings [get]
func (h *AdminHandler) HandleGetPaymentSettings(ctx *gin.Context) {
	settings, err := h.svc.GetPaymentSettings(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPaymentSettings -> h.svc.GetPaymentSettings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandleUpdatePaymentSettings godoc
// @Summary      Update the payment settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.UpdatePaymentSettingsRequest true "request body"
// @Success      200      {object}   domain.PaymentSettings
// @Failure      400      {object}   response.Err
// @Router       /admin/payment-settings [put]
func (h *AdminHandler) HandleUpdatePaymentSettings(ctx *gin.Context) {
	var req request.UpdatePaymentSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	settings, err := h.svc.UpdatePaymentSettings(ctx.Request.Context(), req.ToUpdate())
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdatePaymentSettings -> h.svc.UpdatePaymentSettings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandleGetAdSettings godoc
// @Summary      Get the ad settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   domain.AdSettings
// @Failure      403      {object}   response.Err
// @Router       /admin/ad-settings [get]
func (h *AdminHandler) HandleGetAdSettings(ctx *gin.Context) {
	settings, err := h.svc.GetAdSettings(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetAdSettings -> h.svc.GetAdSettings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandleUpdateAdSettings godoc
// @Summary      Replace the ad settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.UpdateAdSettingsRequest true "request body"
// @Success      200      {object}   domain.AdSettings
// @Failure      400      {object}   response.Err
// @Router       /admin/ad-settings [put]
func (h *AdminHandler) HandleUpdateAdSettings(ctx *gin.Context) {
	var req request.UpdateAdSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	settings, err := h.svc.SaveAdSettings(ctx.Request.Context(), req.ToSettings())
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateAdSettings -> h.svc.SaveAdSettings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandleCreateBarUser godoc
// @Summary      Create a bar-portal account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.CreateBarUserRequest true "request body"
// @Success      201      {object}   domain.BarUser
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /admin/bar-users [post]
func (h *AdminHandler) HandleCreateBarUser(ctx *gin.Context) {
	var req request.CreateBarUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	barUser, err := h.svc.CreateBarUser(ctx.Request.Context(), domain.BarUser{
		BarID:       req.BarID,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		if errors.Is(err, service.ErrBarNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrBarNotFound))

			return
		}
		if errors.Is(err, service.ErrBarUserEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrBarUserEmailExists))

			return
		}

		err = fmt.Errorf("v1.HandleCreateBarUser -> h.svc.CreateBarUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, barUser)
}

// HandleListBarUsers godoc
// @Summary      List bar-portal accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   []domain.BarUser
// @Failure      403      {object}   response.Err
// @Router       /admin/bar-users [get]
func (h *AdminHandler) HandleListBarUsers(ctx *gin.Context) {
	barUsers, err := h.svc.ListBarUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListBarUsers -> h.svc.ListBarUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, barUsers)
}
