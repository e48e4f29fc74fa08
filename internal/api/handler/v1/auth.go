package v1

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onenightdrink/api/internal/api/handler/v1/request"
	"github.com/onenightdrink/api/internal/api/handler/v1/response"
	"github.com/onenightdrink/api/internal/config"
	"github.com/onenightdrink/api/internal/domain"
	"github.com/onenightdrink/api/internal/pkg/jwthelper"
	"github.com/onenightdrink/api/internal/service"
)

var errInvalidCredentials = errors.New("Invalid credentials")

type AuthService interface {
	Register(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
}

type AuthUserService interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (domain.User, error)
}

type AuthHandler struct {
	conf    *config.APIConfig
	svc     AuthService
	userSvc AuthUserService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, userSvc AuthUserService) *AuthHandler {
	return &AuthHandler{
		conf:    conf,
		svc:     svc,
		userSvc: userSvc,
	}
}

// HandleRegister godoc
// @Summary      Register a new user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Register(ctx.Request.Context(), domain.User{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUserEmailExists))

			return
		}

		err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateUserToken([]byte(h.conf.JWTSigningKey), user.ID, user.Email)
	if err != nil {
		err = fmt.Errorf("v1.HandleRegister -> jwthelper.GenerateUserToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, response.LoginResponse{
		Token: token,
		User:  user,
	})
}

// HandleLogin godoc
// @Summary      Login a user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(errInvalidCredentials))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateUserToken([]byte(h.conf.JWTSigningKey), user.ID, user.Email)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateUserToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  user,
	})
}

// HandleAdminLogin godoc
// @Summary      Login the back-office admin
// @Tags         auth
// @Produce      json
// @Param        request   body      request.AdminLoginRequest true "request body"
// @Success      200      {object}   response.AdminLoginResponse
// @Failure      401      {object}   response.Err
// @Router       /auth/admin/login [post]
func (h *AuthHandler) HandleAdminLogin(ctx *gin.Context) {
	var req request.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.conf.AdminPassword)) != 1 {
		response.RenderErr(ctx, response.ErrWrongCredentials(errInvalidCredentials))

		return
	}

	token, err := jwthelper.GenerateAdminToken([]byte(h.conf.JWTSigningKey))
	if err != nil {
		err = fmt.Errorf("v1.HandleAdminLogin -> jwthelper.GenerateAdminToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.AdminLoginResponse{Token: token})
}

// HandleGetMe godoc
// @Summary      Get the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /auth/me [get]
func (h *AuthHandler) HandleGetMe(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	user, err := h.userSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetMe -> h.userSvc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateProfile godoc
// @Summary      Update the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.UpdateProfileRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Router       /auth/profile [put]
func (h *AuthHandler) HandleUpdateProfile(ctx *gin.Context) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	var req request.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.userSvc.UpdateProfile(ctx.Request.Context(), userID, domain.ProfileUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		Avatar:      req.Avatar,
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateProfile -> h.userSvc.UpdateProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}
