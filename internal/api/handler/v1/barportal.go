package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onenightdrink/api/internal/api/handler/v1/request"
	"github.com/onenightdrink/api/internal/api/handler/v1/response"
	"github.com/onenightdrink/api/internal/config"
	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/pkg/jwthelper"
	"github.com/onenightdrink/api/internal/service"
)

const historyLimitMax = 200

var errPassNotFoundForBar = errors.New("Pass not found for this bar")

type BarPortalService interface {
	Login(ctx context.Context, email, password string) (domain.BarUser, domain.Bar, error)
	Me(ctx context.Context, barUserID string) (domain.BarUser, domain.Bar, error)
	PassesToday(ctx context.Context, barID string) ([]domain.Pass, error)
	VerifyPass(ctx context.Context, barID, code string) (service.VerifyResult, error)
	CollectPass(ctx context.Context, barID, passID, barUserID string) (domain.Pass, error)
	PaymentHistory(ctx context.Context, barID string, filter service.HistoryFilter, limit int) ([]domain.Pass, error)
	UpdateOwnBar(ctx context.Context, barID string, update domain.BarUpdate) (domain.Bar, error)
}

type BarPortalHandler struct {
	conf *config.APIConfig
	svc  BarPortalService
}

func NewBarPortalHandler(conf *config.APIConfig, svc BarPortalService) *BarPortalHandler {
	return &BarPortalHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleLogin godoc
// @Summary      Login bar staff
// @Tags         bar-portal
// @Produce      json
// @Param        request   body      request.BarLoginRequest true "request body"
// @Success      200      {object}   response.BarLoginResponse
// @Failure      401      {object}   response.Err
// @Router       /bar-portal/auth/login [post]
func (h *BarPortalHandler) HandleLogin(ctx *gin.Context) {
	var req request.BarLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	barUser, bar, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBarUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(errInvalidCredentials))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateBarToken([]byte(h.conf.BarJWTSigningKey), barUser.ID, barUser.BarID)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateBarToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.BarLoginResponse{
		Token:   token,
		BarUser: barUser,
		Bar:     bar,
	})
}

// HandleGetMe godoc
// @Summary      Get the authenticated staff account and its bar
// @Tags         bar-portal
// @Produce      json
// @Security     BarBearerAuth
// @Success      200      {object}   response.BarLoginResponse
// @Failure      401      {object}   response.Err
// @Router       /bar-portal/auth/me [get]
func (h *BarPortalHandler) HandleGetMe(ctx *gin.Context) {
	barUserID, _, err := barIdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	barUser, bar, err := h.svc.Me(ctx.Request.Context(), barUserID)
	if err != nil {
		if errors.Is(err, service.ErrBarUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrBarUserNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetMe -> h.svc.Me -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.BarLoginResponse{
		BarUser: barUser,
		Bar:     bar,
	})
}

// HandlePassesToday godoc
// @Summary      List passes purchased for this bar today
// @Tags         bar-portal
// @Produce      json
// @Security     BarBearerAuth
// @Success      200      {object}   []domain.Pass
// @Failure      401      {object}   response.Err
// @Router       /bar-portal/passes/today [get]
func (h *BarPortalHandler) HandlePassesToday(ctx *gin.Context) {
	_, barID, err := barIdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	passes, err := h.svc.PassesToday(ctx.Request.Context(), barID)
	if err != nil {
		err = fmt.Errorf("v1.HandlePassesToday -> h.svc.PassesToday -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, passes)
}

// HandleVerifyPass godoc
// @Summary      Verify a scanned pass without redeeming it
// @Tags         bar-portal
// @Produce      json
// @Security     BarBearerAuth
// @Param        request   body      request.VerifyPassRequest true "request body"
// @Success      200      {object}   response.VerifyPassResponse
// @Failure      404      {object}   response.VerifyPassResponse
// @Router       /bar-portal/passes/verify [post]
func (h *BarPortalHandler) HandleVerifyPass(ctx *gin.Context) {
	_, barID, err := barIdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	var req request.VerifyPassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	result, err := h.svc.VerifyPass(ctx.Request.Context(), barID, req.Code())
	if err != nil {
		if errors.Is(err, service.ErrPassNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"valid": false,
				"error": errPassNotFoundForBar.Error(),
			})

			return
		}

		err = fmt.Errorf("v1.HandleVerifyPass -> h.svc.VerifyPass -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.VerifyPassResponse{
		Valid:     result.Valid,
		IsExpired: result.IsExpired,
		Pass:      result.Pass,
	})
}

// HandleCollectPass godoc
// @Summary      Mark a pass as collected
// @Tags         bar-portal
// @Produce      json
// @Security     BarBearerAuth
// @Param        request   body      request.CollectPassRequest true "request body"
// @Success      200      {object}   response.CollectPassResponse
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.CollectPassResponse
// @Router       /bar-portal/passes/collect [post]
func (h *BarPortalHandler) HandleCollectPass(ctx *gin.Context) {
	barUserID, barID, err := barIdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	var req request.CollectPassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	pass, err := h.svc.CollectPass(ctx.Request.Context(), barID, req.PassID, barUserID)
	if err != nil {
		if errors.Is(err, service.ErrPassAlreadyCollected) {
			ctx.JSON(http.StatusConflict, response.CollectPassResponse{
				Message: service.ErrPassAlreadyCollected.Error(),
				Pass:    pass,
			})

			return
		}
		if errors.Is(err, service.ErrPassNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(errPassNotFoundForBar))

			return
		}

		err = fmt.Errorf("v1.HandleCollectPass -> h.svc.CollectPass -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.CollectPassResponse{
		Message: "Pass collected",
		Pass:    pass,
	})
}

// HandlePaymentHistory godoc
// @Summary      List this bar's pass payment history
// @Tags         bar-portal
// @Produce      json
// @Security     BarBearerAuth
// @Param        from     query   string  false  "from time (RFC 3339)"
// @Param        to       query   string  false  "to time (RFC 3339)"
// @Param        status   query   string  false  "collected or uncollected"
// @Param        limit    query   int     false  "max rows (default 200)"
// @Success      200      {object}   []domain.Pass
// @Failure      401      {object}   response.Err
// @Router       /bar-portal/payments/history [get]
func (h *BarPortalHandler) HandlePaymentHistory(ctx *gin.Context) {
	_, barID, err := barIdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	var filter service.HistoryFilter
	if from := ctx.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}
		filter.From = &t
	}
	if to := ctx.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}
		filter.To = &t
	}
	switch ctx.Query("status") {
	case "collected":
		collected := true
		filter.Collected = &collected
	case "uncollected":
		collected := false
		filter.Collected = &collected
	}

	limit := historyLimitMax
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("limit must be a positive integer")))

			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	passes, err := h.svc.PaymentHistory(ctx.Request.Context(), barID, filter, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandlePaymentHistory -> h.svc.PaymentHistory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, passes)
}

// HandleUpdateBar godoc
// @Summary      Update the authenticated staff's bar
// @Tags         bar-portal
// @Produce      json
// @Security     BarBearerAuth
// @Param        request   body      request.UpdateBarRequest true "request body"
// @Success      200      {object}   domain.Bar
// @Failure      400      {object}   response.Err
// @Router       /bar-portal/bar [put]
func (h *BarPortalHandler) HandleUpdateBar(ctx *gin.Context) {
	_, barID, err := barIdentityFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	var req request.UpdateBarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	bar, err := h.svc.UpdateOwnBar(ctx.Request.Context(), barID, domain.BarUpdate{
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

		err = fmt.Errorf("v1.HandleUpdateBar -> h.svc.UpdateOwnBar -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, bar)
}
