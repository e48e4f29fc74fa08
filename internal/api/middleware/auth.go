package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/onenightdrink/api/internal/api/handler/v1/response"
	"github.com/onenightdrink/api/internal/pkg/jwthelper"
)

const (
	ContextKeyUserID    = "userID"
	ContextKeyUserEmail = "userEmail"
	ContextKeyIsAdmin   = "isAdmin"
	ContextKeyBarUserID = "barUserID"
	ContextKeyBarID     = "barID"
)

var (
	errMissingToken     = errors.New("Authorization header required (Bearer <token>)")
	errInvalidToken     = errors.New("Invalid or expired token")
	errTokenInvalidated = errors.New("Token invalidated after server restart")
	errAdminRequired    = errors.New("Admin access required")
)

// Authenticator validates bearer tokens against one signing key. Tokens
// issued before the epoch are rejected, so every restart invalidates all
// outstanding sessions for the schemes that opt in.
type Authenticator struct {
	signingKey []byte
	epoch      time.Time
}

func NewAuthenticator(signingKey string, epoch time.Time) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		epoch:      epoch,
	}
}

// VerifyUser authenticates an app user and stores its identity on the
// context.
func (a *Authenticator) VerifyUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := bearerToken(ctx)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		claims, err := jwthelper.ParseUserToken(a.signingKey, tokenString)
		if err != nil || claims.UserID == "" {
			response.RenderErr(ctx, response.ErrPermissionDenied(errInvalidToken))
			return
		}

		if a.issuedBeforeEpoch(claims.IssuedAt) {
			response.RenderErr(ctx, response.ErrPermissionDenied(errTokenInvalidated))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Set(ContextKeyUserEmail, claims.Email)
		ctx.Next()
	}
}

// VerifyAdmin authenticates the back-office admin session.
func (a *Authenticator) VerifyAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := bearerToken(ctx)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		claims, err := jwthelper.ParseAdminToken(a.signingKey, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrPermissionDenied(errInvalidToken))
			return
		}
		if !claims.IsAdmin {
			response.RenderErr(ctx, response.ErrPermissionDenied(errAdminRequired))
			return
		}

		if a.issuedBeforeEpoch(claims.IssuedAt) {
			response.RenderErr(ctx, response.ErrPermissionDenied(errTokenInvalidated))
			return
		}

		ctx.Set(ContextKeyIsAdmin, true)
		ctx.Next()
	}
}

// VerifyBar authenticates bar-portal staff. The portal uses its own signing
// key, so this authenticator must be constructed with that key.
func (a *Authenticator) VerifyBar() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := bearerToken(ctx)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		claims, err := jwthelper.ParseBarToken(a.signingKey, tokenString)
		if err != nil || claims.BarUserID == "" || claims.BarID == "" {
			response.RenderErr(ctx, response.ErrPermissionDenied(errInvalidToken))
			return
		}

		if a.issuedBeforeEpoch(claims.IssuedAt) {
			response.RenderErr(ctx, response.ErrPermissionDenied(errTokenInvalidated))
			return
		}

		ctx.Set(ContextKeyBarUserID, claims.BarUserID)
		ctx.Set(ContextKeyBarID, claims.BarID)
		ctx.Next()
	}
}

func (a *Authenticator) issuedBeforeEpoch(issuedAt *jwt.NumericDate) bool {
	if a.epoch.IsZero() || issuedAt == nil {
		return false
	}

	return issuedAt.Time.Before(a.epoch)
}

func bearerToken(ctx *gin.Context) (string, error) {
	header := ctx.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", errMissingToken
	}

	return strings.TrimPrefix(header, "Bearer "), nil
}
